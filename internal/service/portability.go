package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
)

const ExportVersion = 1

// ExportData is a portable snapshot of one user's logs in the storage wire
// format.
type ExportData struct {
	Version    int                    `json:"version"`
	UserID     string                 `json:"user_id"`
	ExportedAt time.Time              `json:"exported_at"`
	FromDate   string                 `json:"from_date"`
	ToDate     string                 `json:"to_date"`
	Profile    *store.ProfileRecord   `json:"profile,omitempty"`
	Logs       []store.DailyLogRecord `json:"daily_logs"`
}

type ImportMode string

const (
	ImportModeFail    ImportMode = "fail"
	ImportModeSkip    ImportMode = "skip"
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Conflicts int      `json:"conflicts"`
	Warnings  []string `json:"warnings,omitempty"`
}

func ParseImportMode(value string) (ImportMode, error) {
	switch m := ImportMode(value); m {
	case ImportModeFail, ImportModeSkip, ImportModeMerge, ImportModeReplace:
		return m, nil
	case "":
		return ImportModeMerge, nil
	default:
		return "", fmt.Errorf("invalid import mode %q (use fail, skip, merge or replace)", value)
	}
}

func ExportSnapshot(ctx context.Context, logs store.LogRepository, profiles store.ProfileStore, userID, from, to string) (*ExportData, error) {
	if from > to {
		return nil, fmt.Errorf("from date must be <= to date")
	}
	list, err := logs.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	out := &ExportData{
		Version:    ExportVersion,
		UserID:     userID,
		ExportedAt: time.Now().UTC(),
		FromDate:   from,
		ToDate:     to,
		Logs:       make([]store.DailyLogRecord, 0, len(list)),
	}
	for _, l := range list {
		out.Logs = append(out.Logs, store.DailyLogToRecord(userID, l))
	}
	if profiles != nil {
		p, err := profiles.GetProfile(ctx, userID)
		switch {
		case err == nil:
			rec := store.ProfileToRecord(p)
			out.Profile = &rec
		case !store.IsNotFound(err):
			return nil, fmt.Errorf("read profile: %w", err)
		}
	}
	return out, nil
}

// ImportSnapshot writes data's logs for userID through the repository.
// Every write is a full save of the day, so merge first combines the stored
// day with the imported one: imported entries win by id, other stored
// entries are kept, and imported scalars replace stored ones when set.
func ImportSnapshot(ctx context.Context, logs store.LogRepository, profiles store.ProfileStore, userID string, data *ExportData, opts ImportOptions) (ImportReport, error) {
	report := ImportReport{}
	if data == nil {
		return report, fmt.Errorf("import data is required")
	}
	if data.Version > ExportVersion {
		return report, fmt.Errorf("unsupported export version %d", data.Version)
	}
	mode, err := ParseImportMode(string(opts.Mode))
	if err != nil {
		return report, err
	}

	for _, rec := range data.Logs {
		if !daykey.IsValid(rec.Date) {
			report.Skipped++
			report.Warnings = append(report.Warnings, fmt.Sprintf("skipped log with invalid date %q", rec.Date))
			continue
		}
		incoming := store.DailyLogFromRecord(rec)
		existing, err := logs.FetchByDay(ctx, userID, rec.Date)
		exists := err == nil
		if err != nil && !store.IsNotFound(err) {
			return report, fmt.Errorf("fetch daily log %s: %w", rec.Date, err)
		}

		next := incoming
		if exists {
			switch mode {
			case ImportModeFail:
				report.Conflicts++
				return report, fmt.Errorf("daily log %s already exists", rec.Date)
			case ImportModeSkip:
				report.Skipped++
				continue
			case ImportModeMerge:
				next = mergeDailyLogs(existing, incoming)
			}
		}
		if !opts.DryRun {
			if err := logs.Save(ctx, userID, next); err != nil {
				return report, fmt.Errorf("save daily log %s: %w", rec.Date, err)
			}
		}
		if exists {
			report.Updated++
		} else {
			report.Inserted++
		}
	}

	if data.Profile != nil && profiles != nil {
		if err := importProfile(ctx, profiles, userID, *data.Profile, mode, opts.DryRun, &report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func importProfile(ctx context.Context, profiles store.ProfileStore, userID string, rec store.ProfileRecord, mode ImportMode, dryRun bool, report *ImportReport) error {
	incoming := store.ProfileFromRecord(rec)
	incoming.UserID = userID
	_, err := profiles.GetProfile(ctx, userID)
	exists := err == nil
	if err != nil && !store.IsNotFound(err) {
		return fmt.Errorf("read profile: %w", err)
	}
	if exists && mode != ImportModeReplace {
		report.Skipped++
		report.Warnings = append(report.Warnings, "kept existing profile")
		return nil
	}
	if !dryRun {
		if err := profiles.SaveProfile(ctx, incoming); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
	}
	if exists {
		report.Updated++
	} else {
		report.Inserted++
	}
	return nil
}

func mergeDailyLogs(existing, incoming model.DailyLog) model.DailyLog {
	out := existing.Clone()
	out.WaterIntake = incoming.WaterIntake
	if incoming.Weight != nil {
		w := *incoming.Weight
		out.Weight = &w
	}
	if incoming.DailyNotes != "" {
		out.DailyNotes = incoming.DailyNotes
	}
	out.IsCheatDay = existing.IsCheatDay || incoming.IsCheatDay

	index := make(map[string]int, len(out.FoodEntries))
	for i, e := range out.FoodEntries {
		index[e.ID] = i
	}
	for _, e := range incoming.FoodEntries {
		if i, ok := index[e.ID]; ok {
			out.FoodEntries[i] = e.Clone()
			continue
		}
		index[e.ID] = len(out.FoodEntries)
		out.FoodEntries = append(out.FoodEntries, e.Clone())
	}
	sort.SliceStable(out.FoodEntries, func(i, j int) bool {
		return out.FoodEntries[i].TimeConsumed.Before(out.FoodEntries[j].TimeConsumed)
	})
	return out
}
