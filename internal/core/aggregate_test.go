package core

import (
	"reflect"
	"testing"
)

func recordFor(name string, cost float64, person string, cat Category, honesty int) ToolRecord {
	return ToolRecord{
		Name:             name,
		MonthlyCost:      cost,
		Accounts:         1,
		AssignedPerson:   person,
		Category:         cat,
		GunaHonestyMeter: honesty,
		ActualYearlyCost: cost * 12,
	}
}

func TestComputeKPIs(t *testing.T) {
	records := []ToolRecord{
		recordFor("Figma", 45, "Alice", CategoryNeed, 8),
		recordFor("Netflix", 15.5, "Bob", CategoryWant, 2),
		recordFor("Slack", 8, "Alice", CategoryNeed, 5),
	}
	records[0].IsOverBudget = true

	k := ComputeKPIs(records)

	if k.TotalMonthly != 68.5 {
		t.Errorf("TotalMonthly = %v, want 68.5", k.TotalMonthly)
	}
	if k.TotalYearly != 822 {
		t.Errorf("TotalYearly = %v, want 822", k.TotalYearly)
	}
	if k.TotalTools != 3 || k.OverBudgetCount != 1 {
		t.Errorf("TotalTools/OverBudget = %d/%d, want 3/1", k.TotalTools, k.OverBudgetCount)
	}
	if k.AverageHonesty != 5 {
		t.Errorf("AverageHonesty = %v, want 5", k.AverageHonesty)
	}
	if k.NeedCount != 2 || k.WantCount != 1 {
		t.Errorf("Need/Want = %d/%d, want 2/1", k.NeedCount, k.WantCount)
	}
}

func TestComputeKPIs_Empty(t *testing.T) {
	if k := ComputeKPIs(nil); k != (KPIs{}) {
		t.Errorf("ComputeKPIs(nil) = %+v, want zero", k)
	}
}

func TestComputeKPIs_Idempotent(t *testing.T) {
	records := []ToolRecord{
		recordFor("A", 0.1, "x", CategoryNeed, 3),
		recordFor("B", 0.2, "y", CategoryWant, 9),
	}
	before := append([]ToolRecord(nil), records...)

	first := ComputeKPIs(records)
	second := ComputeKPIs(records)

	if first != second {
		t.Errorf("ComputeKPIs not idempotent: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(records, before) {
		t.Error("ComputeKPIs modified its input")
	}
}

func TestComputeKPIs_NoRoundingDuringSummation(t *testing.T) {
	records := []ToolRecord{
		recordFor("A", 0.005, "x", CategoryNeed, 5),
		recordFor("B", 0.005, "x", CategoryNeed, 5),
	}
	k := ComputeKPIs(records)
	if k.TotalMonthly != 0.01 {
		t.Errorf("TotalMonthly = %v, want 0.01 from unrounded parts", k.TotalMonthly)
	}
	if got := k.Rounded().TotalMonthly; got != 0.01 {
		t.Errorf("Rounded TotalMonthly = %v, want 0.01", got)
	}
}

func TestComputeChartGroups_CostByToolStableDescending(t *testing.T) {
	records := []ToolRecord{
		recordFor("A", 10, "x", CategoryNeed, 5),
		recordFor("B", 30, "x", CategoryNeed, 5),
		recordFor("C", 10, "x", CategoryNeed, 5),
		recordFor("D", 20, "x", CategoryNeed, 5),
	}

	g := ComputeChartGroups(records, PeoplePolicy{})

	want := []ToolCost{{"B", 30}, {"D", 20}, {"A", 10}, {"C", 10}}
	if !reflect.DeepEqual(g.CostByTool, want) {
		t.Errorf("CostByTool = %v, want %v", g.CostByTool, want)
	}
	if records[0].Name != "A" {
		t.Error("input order was modified")
	}
}

func TestComputeChartGroups_SharedSplit(t *testing.T) {
	people := PeoplePolicy{Named: []string{"Rudyculous", "Rudraksh"}, Shared: "Both"}
	records := []ToolRecord{
		recordFor("Shared", 100, "Both", CategoryNeed, 5),
	}

	g := ComputeChartGroups(records, people)

	want := []PersonCost{{"Rudyculous", 50}, {"Rudraksh", 50}}
	if !reflect.DeepEqual(g.CostByPerson, want) {
		t.Errorf("CostByPerson = %v, want %v", g.CostByPerson, want)
	}
	for _, p := range g.CostByPerson {
		if p.Person == "Both" {
			t.Error("shared value must not get its own bucket")
		}
	}
}

func TestComputeChartGroups_CostByPersonFirstAppearance(t *testing.T) {
	people := PeoplePolicy{Named: []string{"Rudyculous", "Rudraksh"}, Shared: "Both"}
	records := []ToolRecord{
		recordFor("A", 10, "Rudraksh", CategoryNeed, 5),
		recordFor("B", 20, "Both", CategoryWant, 5),
		recordFor("C", 5, "Rudraksh", CategoryWant, 5),
	}

	g := ComputeChartGroups(records, people)

	want := []PersonCost{{"Rudraksh", 25}, {"Rudyculous", 10}}
	if !reflect.DeepEqual(g.CostByPerson, want) {
		t.Errorf("CostByPerson = %v, want %v", g.CostByPerson, want)
	}

	wantBuckets := []CategoryBucket{
		{Name: CategoryNeed, Value: 1, Cost: 10},
		{Name: CategoryWant, Value: 2, Cost: 25},
	}
	if !reflect.DeepEqual(g.NeedVsWant, wantBuckets) {
		t.Errorf("NeedVsWant = %v, want %v", g.NeedVsWant, wantBuckets)
	}
}

func TestComputeChartGroups_OpenPeopleKeepBothLiteral(t *testing.T) {
	g := ComputeChartGroups([]ToolRecord{recordFor("A", 10, "Both", CategoryNeed, 5)}, PeoplePolicy{})
	if len(g.CostByPerson) != 1 || g.CostByPerson[0].Person != "Both" {
		t.Errorf("CostByPerson = %v, want a literal Both bucket in an open set", g.CostByPerson)
	}
}

func TestChartGroups_Rounded(t *testing.T) {
	g := ComputeChartGroups([]ToolRecord{
		recordFor("A", 10.005, "x", CategoryNeed, 5),
	}, PeoplePolicy{}).Rounded()

	if g.CostByTool[0].Cost != 10.01 || g.CostByPerson[0].Cost != 10.01 || g.NeedVsWant[0].Cost != 10.01 {
		t.Errorf("Rounded() = %+v", g)
	}
}
