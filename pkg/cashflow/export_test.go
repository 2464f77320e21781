package cashflow

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportPoints() []Point {
	salary := Event{Entity: Entity{ID: "salary", Name: "Salary", Amount: 5000, Category: "Income", Kind: KindIncome}, Flow: FlowInflow}
	rent := Event{Entity: Entity{ID: "rent", Name: "Rent", Amount: 1000, Category: "Housing", Kind: KindExpense, Priority: PriorityCritical}, Flow: FlowOutflow}
	reserve := Event{Entity: Entity{ID: "reserve", Name: "Reserve", Amount: 50, Kind: KindSavings, Priority: PriorityReserve}, Flow: FlowInvestment}

	return []Point{
		{Date: day(time.January, 10), Balance: 4000, Inflow: 5000, Outflow: 1000, Events: []Event{salary, rent}},
		{Date: day(time.January, 11), Balance: 4000, Events: []Event{}},
		{Date: day(time.January, 12), Balance: 3950, InvestmentFlow: 50, SavingsBalance: 50, Events: []Event{reserve}},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportPoints()))

	want := strings.Join([]string{
		"DATE,DAY,EVENT,INFLOW,OUTFLOW,RESERVE,BALANCE",
		"2026-01-10,Sat,Salary,5000.00,0.00,0.00,4000.00",
		",,Rent,0.00,1000.00,0.00,",
		"2026-01-11,Sun,-,0.00,0.00,0.00,4000.00",
		"2026-01-12,Mon,Reserve,0.00,0.00,50.00,3950.00",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_QuotesNames(t *testing.T) {
	points := []Point{{
		Date:    day(time.January, 10),
		Balance: -12.5,
		Events:  []Event{{Entity: Entity{ID: "x", Name: "Rent, flat 2", Amount: 12.5}, Flow: FlowOutflow}},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, points))
	assert.Contains(t, buf.String(), `2026-01-10,Sat,"Rent, flat 2",0.00,12.50,0.00,-12.50`)
}

func TestWriteICS(t *testing.T) {
	stamp := time.Date(2026, time.January, 10, 8, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, exportPoints(), stamp))
	out := buf.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+ProductID)
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:salary-2026-01-10@cashflow-go")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20260110")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20260111")
	assert.Contains(t, out, "SUMMARY:Salary +5000.00")
	assert.Contains(t, out, "SUMMARY:Rent -1000.00")
	assert.Contains(t, out, "SUMMARY:Reserve >50.00")
	assert.Contains(t, out, "CATEGORIES:Housing")

	cal, err := ical.NewDecoder(strings.NewReader(out)).Decode()
	require.NoError(t, err)
	assert.Len(t, cal.Events(), 3)
}

func TestWriteICS_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteICS(&buf, []Point{{Date: day(time.January, 10), Events: []Event{}}}, fixedNow)
	assert.Error(t, err)
}

func TestEventUID_StablePerEntityAndDate(t *testing.T) {
	assert.Equal(t, EventUID("rent", day(time.March, 5)), EventUID("rent", day(time.March, 5)))
	assert.NotEqual(t, EventUID("rent", day(time.March, 5)), EventUID("rent", day(time.April, 5)))
	assert.Equal(t, "a_b-2026-03-05@cashflow-go", EventUID("a/b", day(time.March, 5)))
}

func TestParseEventUID(t *testing.T) {
	date, ok := ParseEventUID(EventUID("0b7c-41d2", day(time.March, 5)))
	require.True(t, ok)
	assert.Equal(t, "2026-03-05", date.Key())

	for _, uid := range []string{"birthday", "2026-03-05@cashflow-go", "rent-2026-13-05@cashflow-go", "rent-2026-03-05@other"} {
		_, ok := ParseEventUID(uid)
		assert.False(t, ok, uid)
	}
}
