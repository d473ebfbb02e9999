package core

import (
	"slices"
)

// KPIs are the summary statistics of a record set. Money values are
// unrounded sums; round them with RoundMoney when presenting.
type KPIs struct {
	TotalMonthly    float64 `json:"totalMonthly"`
	TotalYearly     float64 `json:"totalYearly"`
	OverBudgetCount int     `json:"overBudgetCount"`
	TotalTools      int     `json:"totalTools"`
	AverageHonesty  float64 `json:"averageHonesty"`
	NeedCount       int     `json:"needCount"`
	WantCount       int     `json:"wantCount"`
}

// ToolCost is one bar of the cost-by-tool chart.
type ToolCost struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// PersonCost is one slice of the cost-by-person chart.
type PersonCost struct {
	Person string  `json:"person"`
	Cost   float64 `json:"cost"`
}

// CategoryBucket is one side of the need-vs-want chart.
type CategoryBucket struct {
	Name  Category `json:"name"`
	Value int      `json:"value"`
	Cost  float64  `json:"cost"`
}

// ChartGroups are the chart-ready groupings of a record set.
type ChartGroups struct {
	CostByTool   []ToolCost       `json:"costByTool"`
	CostByPerson []PersonCost     `json:"costByPerson"`
	NeedVsWant   []CategoryBucket `json:"needVsWant"`
}

// ComputeKPIs derives summary statistics. TotalYearly is the sum of each
// record's ActualYearlyCost. It does not modify records.
func ComputeKPIs(records []ToolRecord) KPIs {
	var k KPIs
	honestySum := 0
	for _, r := range records {
		k.TotalMonthly += r.MonthlyCost
		k.TotalYearly += r.ActualYearlyCost
		if r.IsOverBudget {
			k.OverBudgetCount++
		}
		honestySum += r.GunaHonestyMeter
		if r.Category == CategoryWant {
			k.WantCount++
		} else {
			k.NeedCount++
		}
	}
	k.TotalTools = len(records)
	if k.TotalTools > 0 {
		k.AverageHonesty = float64(honestySum) / float64(k.TotalTools)
	}
	return k
}

// ComputeChartGroups derives the chart groupings. A record assigned to the
// shared value of a closed people policy has its cost split evenly across
// the named people and never gets a bucket of its own.
func ComputeChartGroups(records []ToolRecord, people PeoplePolicy) ChartGroups {
	byTool := make([]ToolCost, len(records))
	for i, r := range records {
		byTool[i] = ToolCost{Name: r.Name, Cost: r.MonthlyCost}
	}
	slices.SortStableFunc(byTool, func(a, b ToolCost) int {
		switch {
		case a.Cost > b.Cost:
			return -1
		case a.Cost < b.Cost:
			return 1
		default:
			return 0
		}
	})

	var byPerson []PersonCost
	index := make(map[string]int)
	add := func(person string, cost float64) {
		i, ok := index[person]
		if !ok {
			i = len(byPerson)
			index[person] = i
			byPerson = append(byPerson, PersonCost{Person: person})
		}
		byPerson[i].Cost += cost
	}
	for _, r := range records {
		if people.IsShared(r.AssignedPerson) {
			share := r.MonthlyCost / float64(len(people.Named))
			for _, p := range people.Named {
				add(p, share)
			}
			continue
		}
		add(r.AssignedPerson, r.MonthlyCost)
	}
	if byPerson == nil {
		byPerson = []PersonCost{}
	}

	need := CategoryBucket{Name: CategoryNeed}
	want := CategoryBucket{Name: CategoryWant}
	for _, r := range records {
		if r.Category == CategoryWant {
			want.Value++
			want.Cost += r.MonthlyCost
		} else {
			need.Value++
			need.Cost += r.MonthlyCost
		}
	}

	return ChartGroups{
		CostByTool:   byTool,
		CostByPerson: byPerson,
		NeedVsWant:   []CategoryBucket{need, want},
	}
}

// Rounded returns a copy with every money value rounded for display.
func (k KPIs) Rounded() KPIs {
	k.TotalMonthly = RoundMoney(k.TotalMonthly)
	k.TotalYearly = RoundMoney(k.TotalYearly)
	k.AverageHonesty = RoundMoney(k.AverageHonesty)
	return k
}

// Rounded returns a copy with every money value rounded for display.
func (g ChartGroups) Rounded() ChartGroups {
	out := ChartGroups{
		CostByTool:   make([]ToolCost, len(g.CostByTool)),
		CostByPerson: make([]PersonCost, len(g.CostByPerson)),
		NeedVsWant:   make([]CategoryBucket, len(g.NeedVsWant)),
	}
	for i, t := range g.CostByTool {
		out.CostByTool[i] = ToolCost{Name: t.Name, Cost: RoundMoney(t.Cost)}
	}
	for i, p := range g.CostByPerson {
		out.CostByPerson[i] = PersonCost{Person: p.Person, Cost: RoundMoney(p.Cost)}
	}
	for i, b := range g.NeedVsWant {
		b.Cost = RoundMoney(b.Cost)
		out.NeedVsWant[i] = b
	}
	return out
}
