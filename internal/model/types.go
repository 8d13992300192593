package model

import (
	"fmt"
	"strings"
	"time"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists meal types in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

func ParseMealType(value string) (MealType, error) {
	v := MealType(strings.ToLower(strings.TrimSpace(value)))
	switch v {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return v, nil
	case "snacks":
		return MealSnack, nil
	default:
		return "", fmt.Errorf("invalid meal type %q (use breakfast, lunch, dinner or snack)", value)
	}
}

// Nutrition holds nutrient facts per 100 serving units. Nil means the value
// is unknown.
type Nutrition struct {
	Calories  *float64 `json:"calories,omitempty"`
	Protein   *float64 `json:"protein,omitempty"`
	Carbs     *float64 `json:"carbs,omitempty"`
	Fat       *float64 `json:"fat,omitempty"`
	Sugar     *float64 `json:"sugar,omitempty"`
	Fiber     *float64 `json:"fiber,omitempty"`
	Sodium    *float64 `json:"sodium,omitempty"`
	Potassium *float64 `json:"potassium,omitempty"`
}

type FoodItem struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Brand     string     `json:"brand,omitempty"`
	Barcode   string     `json:"barcode,omitempty"`
	Nutrition *Nutrition `json:"nutrition,omitempty"`
}

// FoodEntry is one consumed food within a DailyLog. ServingAmount is units
// consumed relative to the 100-unit reference serving.
type FoodEntry struct {
	ID            string    `json:"id"`
	FoodItem      *FoodItem `json:"foodItem,omitempty"`
	ServingAmount *float64  `json:"servingAmount,omitempty"`
	MealType      MealType  `json:"mealType"`
	TimeConsumed  time.Time `json:"timeConsumed"`
}

// DailyLog is the record for one user on one calendar day.
type DailyLog struct {
	Date        string      `json:"date"`
	FoodEntries []FoodEntry `json:"foodEntries"`
	WaterIntake float64     `json:"waterIntake"`
	Weight      *float64    `json:"weight,omitempty"`
	DailyNotes  string      `json:"dailyNotes,omitempty"`
	IsCheatDay  bool        `json:"isCheatDay"`
}

// NewDailyLog returns the empty log used when a day has no stored record.
func NewDailyLog(day string) DailyLog {
	return DailyLog{
		Date:        day,
		FoodEntries: []FoodEntry{},
	}
}

// Clone returns a deep copy so callers can mutate it without touching the
// original.
func (l DailyLog) Clone() DailyLog {
	out := l
	out.Weight = cloneFloat(l.Weight)
	out.FoodEntries = make([]FoodEntry, len(l.FoodEntries))
	for i, e := range l.FoodEntries {
		out.FoodEntries[i] = e.Clone()
	}
	return out
}

func (e FoodEntry) Clone() FoodEntry {
	out := e
	out.ServingAmount = cloneFloat(e.ServingAmount)
	if e.FoodItem != nil {
		item := *e.FoodItem
		if e.FoodItem.Nutrition != nil {
			n := e.FoodItem.Nutrition.Clone()
			item.Nutrition = &n
		}
		out.FoodItem = &item
	}
	return out
}

func (n Nutrition) Clone() Nutrition {
	return Nutrition{
		Calories:  cloneFloat(n.Calories),
		Protein:   cloneFloat(n.Protein),
		Carbs:     cloneFloat(n.Carbs),
		Fat:       cloneFloat(n.Fat),
		Sugar:     cloneFloat(n.Sugar),
		Fiber:     cloneFloat(n.Fiber),
		Sodium:    cloneFloat(n.Sodium),
		Potassium: cloneFloat(n.Potassium),
	}
}

type UserGoals struct {
	DailyCalories float64  `json:"dailyCalories"`
	DailyProtein  *float64 `json:"dailyProtein,omitempty"`
	DailyCarbs    *float64 `json:"dailyCarbs,omitempty"`
	DailyFat      *float64 `json:"dailyFat,omitempty"`
	DailyWater    *float64 `json:"dailyWater,omitempty"`
}

// Profile is the per-user record the engine reads weight and goals from.
// BirthDate is a day key.
type Profile struct {
	UserID        string    `json:"userId"`
	Name          string    `json:"name,omitempty"`
	Weight        *float64  `json:"weight,omitempty"`
	Height        *float64  `json:"height,omitempty"`
	BirthDate     *string   `json:"birthDate,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	ActivityLevel string    `json:"activityLevel,omitempty"`
	Goals         UserGoals `json:"goals"`
}

func Float(v float64) *float64 {
	return &v
}

func String(v string) *string {
	return &v
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
