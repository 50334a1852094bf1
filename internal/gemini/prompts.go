package gemini

import (
	"fmt"

	"github.com/Sahaji-2003/Food-Tracker/internal/utils"
)

// Промпты анализа. Модель просят посчитать excess_calories сама для качества
// подбора заданий, но её цифре сервер не доверяет — пересчёт в internal/analysis.

const mealAnalysisTemplate = `Analyze this food image and provide a detailed, personalized nutritional assessment.

USER PROFILE:
- Gender: %s
- Age: %d years
- Height: %.0f cm
- Weight: %.0f kg
- Daily Calorie Target: %d kcal
- Calories Already Consumed Today: %d kcal
- Preferred Activities: %s

CALORIE GUIDELINES:
- Walking: ~100 kcal per 2000 steps at 4 km/hour
- Running: ~100 kcal per 1000 steps at 8 km/hour
- Swimming: ~400-700 kcal/hour depending on intensity
- Gym Workout: ~300-500 kcal/hour
- Yoga: ~150-300 kcal/hour
- Cycling: ~400-600 kcal/hour
- HIIT: ~500-800 kcal/hour

Return a JSON object with EXACTLY this structure:
{
    "food": "Name of the overall meal",
    "image_description": "Detailed description of the food (appearance, colors, portion size, plate/container)",
    "items": [
        {"name": "item 1 name", "calories": 000, "quantity": "portion description"}
    ],
    "total_calories": 000,
    "macros": {"p": 00, "c": 00, "f": 00},
    "plate_grade": "A+ to F",
    "reasoning": "Brief explanation of the grade",
    "ingredients": "comma-separated list of all detected ingredients",
    "excess_calories": 000,
    "tasks": [
        {
            "type": "activity type (walking/running/swimming/gym/yoga/cycling/hiit)",
            "name": "Human readable task name",
            "duration_minutes": 00,
            "calories_to_burn": 000,
            "distance_km": 0.0,
            "steps": 0000,
            "description": "Markdown formatted detailed instructions for this activity"
        }
    ]
}

IMPORTANT RULES:
1. Break down the meal into individual items with calories for EACH item
2. Be REALISTIC with calorie estimates - don't overestimate carbs or portions
3. Calculate excess_calories = (calories_consumed + total_calories) - calorie_target
   - If excess_calories <= 0, set to 0 (no burn needed, within budget)
   - Only suggest tasks to burn the EXCESS calories, not the entire meal
4. Generate tasks ONLY for the user's preferred activities: %s
5. Personalize calorie burn estimates based on user's weight and gender
6. If no excess calories, return empty tasks array
7. For each task, provide detailed markdown description with specific exercises and instructions

Return ONLY valid JSON, no markdown or extra text.`

const mealTextTemplate = `Analyze this meal described as: "%s"

USER PROFILE:
- Gender: %s
- Age: %d years
- Height: %.0f cm
- Weight: %.0f kg
- Daily Calorie Target: %d kcal
- Calories Already Consumed Today: %d kcal
- Preferred Activities: %s

Return a JSON object with EXACTLY this structure:
{
    "food": "Name of the meal",
    "image_description": "N/A - text description",
    "items": [
        {"name": "item 1 name", "calories": 000, "quantity": "portion description"}
    ],
    "total_calories": 000,
    "macros": {"p": 00, "c": 00, "f": 00},
    "plate_grade": "A+ to F",
    "reasoning": "Brief explanation of the grade",
    "ingredients": "comma-separated list of detected ingredients",
    "excess_calories": 000,
    "tasks": [
        {
            "type": "activity type",
            "name": "Human readable task name",
            "duration_minutes": 00,
            "calories_to_burn": 000,
            "distance_km": 0.0,
            "steps": 0000,
            "description": "Markdown formatted detailed instructions"
        }
    ]
}

Guidelines:
- Be realistic with calorie estimates
- Calculate excess_calories = (calories_consumed + total_calories) - calorie_target
- Only suggest tasks if there are excess calories
- Generate tasks only for preferred activities: %s

Return ONLY valid JSON, no markdown or extra text.`

const menuTemplate = `Analyze this menu image and suggest the healthiest options.

User's dietary restrictions:
- Allergies: %s
- Medical conditions: %s
- Preferences: %s
- Remaining calorie budget: %d kcal

Return a JSON object with recommendations for healthy choices from the menu:
{
    "suggestions": [
        {"dish_name": "...", "calories": 000, "reasoning": "...", "recommended": true}
    ]
}

Return ONLY valid JSON, no markdown or extra text.`

const pantryTemplate = `Analyze this image of pantry/fridge contents and suggest healthy recipes.

User's dietary restrictions:
- Allergies: %s
- Medical conditions: %s
- Preferences: %s

Return a JSON object with recipe suggestions using the visible ingredients:
{
    "recipes": [
        {"name": "...", "ingredients": ["..."], "instructions": "...", "calories": 000, "macros": {"p": 00, "c": 00, "f": 00}}
    ],
    "missing_ingredients": ["..."]
}

Return ONLY valid JSON, no markdown or extra text.`

func mealImagePrompt(p ProfileContext, caloriesConsumed int) string {
	preferred := utils.JoinOr(p.PreferredTasks, "walking")
	return fmt.Sprintf(mealAnalysisTemplate,
		orUnknown(p.Gender), p.Age, p.Height, p.Weight,
		p.CalorieTarget, caloriesConsumed, preferred, preferred)
}

func mealTextPrompt(text string, p ProfileContext, caloriesConsumed int) string {
	preferred := utils.JoinOr(p.PreferredTasks, "walking")
	return fmt.Sprintf(mealTextTemplate,
		text, orUnknown(p.Gender), p.Age, p.Height, p.Weight,
		p.CalorieTarget, caloriesConsumed, preferred, preferred)
}

func menuPrompt(p ProfileContext, caloriesRemaining int) string {
	return fmt.Sprintf(menuTemplate,
		utils.JoinOr(p.Allergies, "None"),
		utils.JoinOr(p.Conditions, "None"),
		utils.JoinOr(p.Preferences, "None"),
		caloriesRemaining)
}

func pantryPrompt(p ProfileContext) string {
	return fmt.Sprintf(pantryTemplate,
		utils.JoinOr(p.Allergies, "None"),
		utils.JoinOr(p.Conditions, "None"),
		utils.JoinOr(p.Preferences, "None"))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
