package app

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"zelapb/api/internal/export"
	"zelapb/api/internal/store"
)

// Count is one labelled slice of a chart.
type Count struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Stats is the city-hall dashboard, derived from the reports on every call.
type Stats struct {
	Total      int            `json:"total"`
	Resolved   int            `json:"resolved"`
	Pending    int            `json:"pending"`
	InProgress int            `json:"inProgress"`
	Efficiency int            `json:"efficiency"`
	Categories []Count        `json:"categoryData"`
	Statuses   []Count        `json:"statusData"`
	Critical   []store.Report `json:"criticalReports"`
}

const uncategorized = "Outros"

func computeStats(reports []store.Report) Stats {
	stats := Stats{
		Total:      len(reports),
		Categories: []Count{},
		Statuses:   []Count{},
		Critical:   []store.Report{},
	}
	categoryIndex := map[string]int{}
	for _, report := range reports {
		switch report.Status {
		case store.StatusResolved:
			stats.Resolved++
		case store.StatusPending:
			stats.Pending++
		case store.StatusInProgress:
			stats.InProgress++
		}

		category := report.Category
		if category == "" {
			category = uncategorized
		}
		if i, ok := categoryIndex[category]; ok {
			stats.Categories[i].Value++
		} else {
			categoryIndex[category] = len(stats.Categories)
			stats.Categories = append(stats.Categories, Count{Name: category, Value: 1})
		}

		if report.Priority == store.PriorityHigh && report.Status != store.StatusResolved {
			stats.Critical = append(stats.Critical, report)
		}
	}
	if stats.Total > 0 {
		stats.Efficiency = int(math.Round(float64(stats.Resolved) / float64(stats.Total) * 100))
	}

	for _, c := range []Count{
		{Name: "Resolvido", Value: stats.Resolved},
		{Name: "Em Andamento", Value: stats.InProgress},
		{Name: "Pendente", Value: stats.Pending},
	} {
		if c.Value > 0 {
			stats.Statuses = append(stats.Statuses, c)
		}
	}
	return stats
}

func bulletinFromStats(cfg store.SystemConfig, stats Stats, generatedAt time.Time) export.Bulletin {
	bulletin := export.Bulletin{
		AppName:     cfg.AppName,
		Slogan:      cfg.AppSlogan,
		GeneratedAt: generatedAt,
		Total:       stats.Total,
		Resolved:    stats.Resolved,
		Pending:     stats.Pending,
		InProgress:  stats.InProgress,
		Efficiency:  stats.Efficiency,
	}
	for _, c := range stats.Categories {
		bulletin.Categories = append(bulletin.Categories, export.Count{Label: c.Name, Value: c.Value})
	}
	for _, c := range stats.Statuses {
		bulletin.Statuses = append(bulletin.Statuses, export.Count{Label: c.Name, Value: c.Value})
	}
	for _, r := range stats.Critical {
		bulletin.Critical = append(bulletin.Critical, export.CriticalReport{
			ID:          r.ID,
			Description: r.Description,
			Location:    r.Location,
			Category:    r.Category,
			Status:      r.Status.Label(),
			Timestamp:   r.Timestamp,
		})
	}
	return bulletin
}

// MunicipalityView is a registry entry with its contract progress.
type MunicipalityView struct {
	store.Municipality
	ContractProgress float64 `json:"contractProgress"`
}

// Overview is the admin dashboard. The balance figure is decorative and
// carries no accounting meaning.
type Overview struct {
	TotalClients        int                `json:"totalClients"`
	ActiveClients       int                `json:"activeClients"`
	BlockedClients      int                `json:"blockedClients"`
	TotalMonthlyRevenue decimal.Decimal    `json:"totalMonthlyRevenue"`
	TotalBalance        decimal.Decimal    `json:"totalBalance"`
	Municipalities      []MunicipalityView `json:"municipalities"`
}

var balanceMultiplier = decimal.NewFromFloat(1.5)

func computeOverview(municipalities []store.Municipality, monthlyRate decimal.Decimal, now time.Time) Overview {
	overview := Overview{
		TotalClients:   len(municipalities),
		Municipalities: make([]MunicipalityView, 0, len(municipalities)),
	}
	for _, m := range municipalities {
		switch m.Status {
		case store.MunicipalityActive:
			overview.ActiveClients++
		case store.MunicipalityBlocked:
			overview.BlockedClients++
		}
		overview.Municipalities = append(overview.Municipalities, MunicipalityView{
			Municipality:     m,
			ContractProgress: contractProgress(m.JoinedDate, now),
		})
	}
	overview.TotalMonthlyRevenue = monthlyRate.Mul(decimal.NewFromInt(int64(overview.ActiveClients)))
	overview.TotalBalance = overview.TotalMonthlyRevenue.Mul(balanceMultiplier)
	return overview
}

// contractProgress is the elapsed share of a one-year contract that started
// at joined, clamped to [0, 100] and rounded to one decimal.
func contractProgress(joined, now time.Time) float64 {
	end := joined.AddDate(1, 0, 0)
	total := end.Sub(joined)
	if total <= 0 {
		return 0
	}
	pct := float64(now.Sub(joined)) / float64(total) * 100
	pct = math.Min(100, math.Max(0, pct))
	return math.Round(pct*10) / 10
}
