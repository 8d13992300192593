package daylog

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/service"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
)

var (
	profileJSON      bool
	profileName      string
	profileWeight    float64
	profileUnit      string
	profileHeight    float64
	profileBirthDate string
	profileGender    string
	profileActivity  string
	profileCalories  float64
	profileProtein   float64
	profileCarbs     float64
	profileFat       float64
	profileWater     float64
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the user profile and daily goals",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the profile and the goals in effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			p, err := service.LoadProfile(ctx, e.store, e.cfg.User.ID)
			if err != nil {
				return err
			}
			if profileJSON {
				return printJSON(cmd.OutOrStdout(), store.ProfileToRecord(p))
			}
			w, hasWeight, err := e.sync.CurrentWeight(ctx, "")
			if err != nil {
				return err
			}
			goals := service.ResolveGoals(&p, w, hasWeight)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "User: %s\n", p.UserID)
			if p.Name != "" {
				fmt.Fprintf(out, "Name: %s\n", p.Name)
			}
			fmt.Fprintf(out, "Weight: %s | Height: %s\n", formatOptional(p.Weight, " kg"), formatOptional(p.Height, " cm"))
			if p.BirthDate != nil {
				fmt.Fprintf(out, "Birth date: %s\n", *p.BirthDate)
			}
			if p.Gender != "" || p.ActivityLevel != "" {
				fmt.Fprintf(out, "Gender: %s | Activity: %s\n", p.Gender, p.ActivityLevel)
			}
			fmt.Fprintf(out, "Goals: %.0f kcal | P %s | C %s | F %s | Water %s\n", goals.DailyCalories,
				formatOptional(goals.DailyProtein, "g"), formatOptional(goals.DailyCarbs, "g"),
				formatOptional(goals.DailyFat, "g"), formatOptional(goals.DailyWater, " ml"))
			return nil
		})
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields; fields not given are kept",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if cmd.LocalFlags().NFlag() == 0 {
			return fmt.Errorf("no profile fields given")
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			p, err := service.UpdateProfile(ctx, e.store, e.cfg.User.ID, func(p *model.Profile) error {
				if flags.Changed("name") {
					p.Name = strings.TrimSpace(profileName)
				}
				if flags.Changed("weight") {
					kg, err := service.ToKg(profileWeight, profileUnit)
					if err != nil {
						return err
					}
					p.Weight = model.Float(kg)
				}
				if flags.Changed("height") {
					p.Height = model.Float(profileHeight)
				}
				if flags.Changed("birth-date") {
					p.BirthDate = nil
					if v := strings.TrimSpace(profileBirthDate); v != "" {
						p.BirthDate = model.String(v)
					}
				}
				if flags.Changed("gender") {
					p.Gender = strings.TrimSpace(profileGender)
				}
				if flags.Changed("activity") {
					p.ActivityLevel = strings.TrimSpace(profileActivity)
				}
				if flags.Changed("calories") {
					p.Goals.DailyCalories = profileCalories
				}
				setGoal := func(flag string, dst **float64, v float64) {
					if flags.Changed(flag) {
						*dst = model.Float(v)
					}
				}
				setGoal("protein", &p.Goals.DailyProtein, profileProtein)
				setGoal("carbs", &p.Goals.DailyCarbs, profileCarbs)
				setGoal("fat", &p.Goals.DailyFat, profileFat)
				setGoal("water", &p.Goals.DailyWater, profileWater)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated profile for %s\n", p.UserID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd, profileSetCmd)
	profileShowCmd.Flags().BoolVar(&profileJSON, "json", false, "Print JSON")

	f := profileSetCmd.Flags()
	f.StringVar(&profileName, "name", "", "Display name")
	f.Float64Var(&profileWeight, "weight", 0, "Body weight")
	f.StringVar(&profileUnit, "unit", "kg", "Weight unit: kg or lb")
	f.Float64Var(&profileHeight, "height", 0, "Height in cm")
	f.StringVar(&profileBirthDate, "birth-date", "", "Birth date YYYY-MM-DD (empty clears)")
	f.StringVar(&profileGender, "gender", "", "Gender")
	f.StringVar(&profileActivity, "activity", "", "Activity level")
	f.Float64Var(&profileCalories, "calories", 0, "Daily calorie goal (0 uses the default)")
	f.Float64Var(&profileProtein, "protein", 0, "Daily protein goal in g")
	f.Float64Var(&profileCarbs, "carbs", 0, "Daily carbs goal in g")
	f.Float64Var(&profileFat, "fat", 0, "Daily fat goal in g")
	f.Float64Var(&profileWater, "water", 0, "Daily water goal in ml")
}
