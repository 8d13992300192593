package store

import (
	"strings"
	"time"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
)

// Records are the persisted and wire shape of the model: snake_case JSON and
// gorm table mappings. The engine itself only works with model types.

type NutritionRecord struct {
	Calories  *float64 `json:"calories,omitempty"`
	Protein   *float64 `json:"protein,omitempty"`
	Carbs     *float64 `json:"carbs,omitempty"`
	Fat       *float64 `json:"fat,omitempty"`
	Sugar     *float64 `json:"sugar,omitempty"`
	Fiber     *float64 `json:"fiber,omitempty"`
	Sodium    *float64 `json:"sodium,omitempty"`
	Potassium *float64 `json:"potassium,omitempty"`
}

type FoodItemRecord struct {
	ID        string           `json:"id,omitempty"`
	Name      string           `json:"name"`
	Brand     string           `json:"brand,omitempty"`
	Barcode   string           `json:"barcode,omitempty"`
	Nutrition *NutritionRecord `json:"nutrition,omitempty"`
}

type FoodEntryRecord struct {
	ID            string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	DailyLogID    uint            `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Position      int             `gorm:"not null" json:"-"`
	FoodItem      *FoodItemRecord `gorm:"serializer:json" json:"food_item"`
	ServingAmount *float64        `json:"serving_amount"`
	MealType      string          `gorm:"type:varchar(16);not null" json:"meal_type"`
	TimeConsumed  string          `gorm:"not null" json:"time_consumed"`
}

func (FoodEntryRecord) TableName() string { return "food_entries" }

type DailyLogRecord struct {
	ID          uint              `gorm:"primaryKey" json:"-"`
	UserID      string            `gorm:"type:varchar(128);not null;uniqueIndex:uidx_daily_logs_user_date" json:"user_id"`
	Date        string            `gorm:"type:varchar(10);not null;uniqueIndex:uidx_daily_logs_user_date" json:"date"`
	WaterIntake float64           `gorm:"not null;default:0" json:"water_intake"`
	Weight      *float64          `json:"weight"`
	DailyNotes  string            `gorm:"not null;default:''" json:"daily_notes"`
	IsCheatDay  bool              `gorm:"not null;default:false" json:"is_cheat_day"`
	FoodEntries []FoodEntryRecord `gorm:"foreignKey:DailyLogID;constraint:OnDelete:CASCADE" json:"food_entries"`
	CreatedAt   time.Time         `json:"-"`
	UpdatedAt   time.Time         `json:"-"`
}

func (DailyLogRecord) TableName() string { return "daily_logs" }

type ProfileRecord struct {
	UserID        string    `gorm:"primaryKey;type:varchar(128)" json:"user_id"`
	Name          string    `gorm:"not null;default:''" json:"name"`
	Weight        *float64  `json:"weight"`
	Height        *float64  `json:"height"`
	BirthDate     *string   `gorm:"type:varchar(10)" json:"birth_date"`
	Gender        string    `gorm:"not null;default:''" json:"gender"`
	ActivityLevel string    `gorm:"not null;default:''" json:"activity_level"`
	DailyCalories float64   `gorm:"not null;default:0" json:"daily_calories"`
	DailyProtein  *float64  `json:"daily_protein"`
	DailyCarbs    *float64  `json:"daily_carbs"`
	DailyFat      *float64  `json:"daily_fat"`
	DailyWater    *float64  `json:"daily_water"`
	UpdatedAt     time.Time `json:"-"`
}

func (ProfileRecord) TableName() string { return "user_profiles" }

// DailyLogToRecord maps a log to its record. Unknown meal types are stored
// as snack, matching how aggregation buckets them.
func DailyLogToRecord(userID string, log model.DailyLog) DailyLogRecord {
	rec := DailyLogRecord{
		UserID:      userID,
		Date:        log.Date,
		WaterIntake: log.WaterIntake,
		Weight:      copyFloat(log.Weight),
		DailyNotes:  log.DailyNotes,
		IsCheatDay:  log.IsCheatDay,
		FoodEntries: make([]FoodEntryRecord, 0, len(log.FoodEntries)),
	}
	for i, e := range log.FoodEntries {
		entry := FoodEntryToRecord(e)
		entry.Position = i
		rec.FoodEntries = append(rec.FoodEntries, entry)
	}
	return rec
}

func DailyLogFromRecord(rec DailyLogRecord) model.DailyLog {
	log := model.NewDailyLog(rec.Date)
	log.WaterIntake = rec.WaterIntake
	log.Weight = copyFloat(rec.Weight)
	log.DailyNotes = rec.DailyNotes
	log.IsCheatDay = rec.IsCheatDay
	for _, e := range rec.FoodEntries {
		log.FoodEntries = append(log.FoodEntries, FoodEntryFromRecord(e))
	}
	return log
}

func FoodEntryToRecord(e model.FoodEntry) FoodEntryRecord {
	meal, err := model.ParseMealType(string(e.MealType))
	if err != nil {
		meal = model.MealSnack
	}
	rec := FoodEntryRecord{
		ID:            e.ID,
		ServingAmount: copyFloat(e.ServingAmount),
		MealType:      string(meal),
	}
	if !e.TimeConsumed.IsZero() {
		rec.TimeConsumed = e.TimeConsumed.Format(time.RFC3339Nano)
	}
	if e.FoodItem != nil {
		rec.FoodItem = &FoodItemRecord{
			ID:      e.FoodItem.ID,
			Name:    e.FoodItem.Name,
			Brand:   e.FoodItem.Brand,
			Barcode: e.FoodItem.Barcode,
		}
		if n := e.FoodItem.Nutrition; n != nil {
			rec.FoodItem.Nutrition = &NutritionRecord{
				Calories:  copyFloat(n.Calories),
				Protein:   copyFloat(n.Protein),
				Carbs:     copyFloat(n.Carbs),
				Fat:       copyFloat(n.Fat),
				Sugar:     copyFloat(n.Sugar),
				Fiber:     copyFloat(n.Fiber),
				Sodium:    copyFloat(n.Sodium),
				Potassium: copyFloat(n.Potassium),
			}
		}
	}
	return rec
}

// FoodEntryFromRecord maps a record back. An unparseable time_consumed
// becomes the zero time rather than failing the whole day.
func FoodEntryFromRecord(rec FoodEntryRecord) model.FoodEntry {
	e := model.FoodEntry{
		ID:            rec.ID,
		ServingAmount: copyFloat(rec.ServingAmount),
		MealType:      model.MealType(strings.ToLower(strings.TrimSpace(rec.MealType))),
	}
	if ts := strings.TrimSpace(rec.TimeConsumed); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.TimeConsumed = t
		}
	}
	if rec.FoodItem != nil {
		e.FoodItem = &model.FoodItem{
			ID:      rec.FoodItem.ID,
			Name:    rec.FoodItem.Name,
			Brand:   rec.FoodItem.Brand,
			Barcode: rec.FoodItem.Barcode,
		}
		if n := rec.FoodItem.Nutrition; n != nil {
			e.FoodItem.Nutrition = &model.Nutrition{
				Calories:  copyFloat(n.Calories),
				Protein:   copyFloat(n.Protein),
				Carbs:     copyFloat(n.Carbs),
				Fat:       copyFloat(n.Fat),
				Sugar:     copyFloat(n.Sugar),
				Fiber:     copyFloat(n.Fiber),
				Sodium:    copyFloat(n.Sodium),
				Potassium: copyFloat(n.Potassium),
			}
		}
	}
	return e
}

func ProfileToRecord(p model.Profile) ProfileRecord {
	rec := ProfileRecord{
		UserID:        p.UserID,
		Name:          p.Name,
		Weight:        copyFloat(p.Weight),
		Height:        copyFloat(p.Height),
		Gender:        p.Gender,
		ActivityLevel: p.ActivityLevel,
		DailyCalories: p.Goals.DailyCalories,
		DailyProtein:  copyFloat(p.Goals.DailyProtein),
		DailyCarbs:    copyFloat(p.Goals.DailyCarbs),
		DailyFat:      copyFloat(p.Goals.DailyFat),
		DailyWater:    copyFloat(p.Goals.DailyWater),
	}
	if p.BirthDate != nil {
		bd := *p.BirthDate
		rec.BirthDate = &bd
	}
	return rec
}

func ProfileFromRecord(rec ProfileRecord) model.Profile {
	p := model.Profile{
		UserID:        rec.UserID,
		Name:          rec.Name,
		Weight:        copyFloat(rec.Weight),
		Height:        copyFloat(rec.Height),
		Gender:        rec.Gender,
		ActivityLevel: rec.ActivityLevel,
		Goals: model.UserGoals{
			DailyCalories: rec.DailyCalories,
			DailyProtein:  copyFloat(rec.DailyProtein),
			DailyCarbs:    copyFloat(rec.DailyCarbs),
			DailyFat:      copyFloat(rec.DailyFat),
			DailyWater:    copyFloat(rec.DailyWater),
		},
	}
	if rec.BirthDate != nil {
		bd := *rec.BirthDate
		p.BirthDate = &bd
	}
	return p
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
