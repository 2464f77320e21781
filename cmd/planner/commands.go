package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/eshaffer321/cashflow-go/config"
	"github.com/eshaffer321/cashflow-go/pkg/cashflow"
)

type app struct {
	client *cashflow.Client
	cfg    *config.Config
	logger cashflow.Logger
	out    io.Writer
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "project":
		return a.project(ctx, args)
	case "summary":
		return a.summary(ctx, args)
	case "runway":
		return a.runway(ctx, args)
	case "debts":
		plan, err := a.client.Projections.DebtPlan(ctx)
		if err != nil {
			return err
		}
		return a.printJSON(plan)
	case "insights":
		return a.insights(ctx, args)
	case "export-csv":
		return a.export(ctx, args, a.client.Projections.ExportCSV)
	case "export-ics":
		return a.export(ctx, args, a.client.Projections.ExportICS)
	case "add":
		return a.add(ctx, args)
	case "remove":
		if len(args) != 1 {
			return errors.New("usage: planner remove <id>")
		}
		return a.client.Entities.Remove(ctx, args[0])
	case "list":
		return a.list(ctx, args)
	case "balance":
		return a.balance(ctx, args)
	case "goals":
		return a.goals(ctx, args)
	case "notes":
		return a.notes(ctx, args)
	case "publish":
		n, err := a.client.Calendar.Publish(ctx, a.cfg.HorizonDays)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "published %d events\n", n)
		return nil
	case "sync":
		return a.client.Sync.Push(ctx, a.client.State())
	case "daemon":
		return a.daemon(ctx)
	}
	return errors.Errorf("unknown command %q\n%s", cmd, usage)
}

func (a *app) horizonFlags(name string) (*flag.FlagSet, *int) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	days := fs.Int("days", a.cfg.HorizonDays, "projection horizon in days")
	return fs, days
}

func (a *app) project(ctx context.Context, args []string) error {
	fs, days := a.horizonFlags("project")
	asJSON := fs.Bool("json", false, "print points as JSON")
	all := fs.Bool("all", false, "include days without events")
	if err := fs.Parse(args); err != nil {
		return err
	}

	points, err := a.client.Projections.Generate(ctx, *days)
	if err != nil {
		return err
	}
	if *asJSON {
		return a.printJSON(points)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "DATE\tIN\tOUT\tRESERVE\tBALANCE\tSAVINGS\tDEBT\tEVENTS\t")
	for _, p := range points {
		if !*all && !p.HasEvents() {
			continue
		}
		names := make([]string, len(p.Events))
		for i, ev := range p.Events {
			names[i] = ev.Name
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t\n",
			p.Date.Key(), p.Inflow, p.Outflow, p.InvestmentFlow, p.Balance, p.SavingsBalance, p.DebtBalance,
			strings.Join(names, ", "))
	}
	return w.Flush()
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs, days := a.horizonFlags("summary")
	stress := fs.Float64("stress", 0, "hypothetical spend for the stressed runway")
	if err := fs.Parse(args); err != nil {
		return err
	}

	summary, err := a.client.Projections.Summary(ctx, *days, *stress)
	if err != nil {
		return err
	}
	return a.printJSON(summary)
}

func (a *app) runway(ctx context.Context, args []string) error {
	fs, days := a.horizonFlags("runway")
	shock := fs.Float64("shock", 0, "amount spent today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	impact, err := a.client.Projections.Runway(ctx, *days, *shock)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "runway: %.1f months\n", impact.Baseline)
	if *shock > 0 {
		fmt.Fprintf(a.out, "after %.2f: %.1f months (-%.1f)\n", *shock, impact.Stressed, impact.Impact)
	}
	return nil
}

func (a *app) insights(ctx context.Context, args []string) error {
	fs, days := a.horizonFlags("insights")
	if err := fs.Parse(args); err != nil {
		return err
	}

	report, err := a.client.Insights.Generate(ctx, *days)
	if err != nil {
		return err
	}
	return a.printJSON(report)
}

func (a *app) export(ctx context.Context, args []string, write func(context.Context, io.Writer, int) error) error {
	fs, days := a.horizonFlags("export")
	output := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *output == "" {
		return write(ctx, a.out, *days)
	}

	f, err := os.Create(*output)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err := write(ctx, f, *days); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	kind := fs.String("kind", "expense", "income, expense, debt or savings")
	name := fs.String("name", "", "display name")
	amount := fs.Float64("amount", 0, "amount per occurrence")
	frequency := fs.String("frequency", "monthly", "daily, weekly, biweekly, monthly, biweekly-fixed or once")
	start := fs.String("start", "", "start date YYYY-MM-DD")
	end := fs.String("end", "", "optional end date YYYY-MM-DD")
	total := fs.Float64("total", -1, "debt total")
	paid := fs.Float64("paid", -1, "debt amount already paid")
	renegotiated := fs.Bool("renegotiated", false, "debt has an instalment plan")
	days := fs.String("days", "", "days of month for biweekly-fixed, e.g. 5,20")
	category := fs.String("category", "", "category label")
	priority := fs.String("priority", string(cashflow.PriorityNecessary), "CRITICAL, NECESSARY, FLEXIBLE, UNPLANNED or RESERVE")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entity := cashflow.Entity{
		Name:           *name,
		Amount:         *amount,
		Frequency:      cashflow.Frequency(*frequency),
		Category:       *category,
		Priority:       cashflow.Priority(strings.ToUpper(*priority)),
		Status:         cashflow.StatusPlanned,
		IsRenegotiated: *renegotiated,
	}

	var err error
	if entity.StartDate, err = cashflow.ParseDate(*start, a.cfg.Timezone); err != nil {
		return err
	}
	if *end != "" {
		endDate, err := cashflow.ParseDate(*end, a.cfg.Timezone)
		if err != nil {
			return err
		}
		entity.EndDate = &endDate
	}
	if *total >= 0 {
		entity.TotalAmount = total
	}
	if *paid >= 0 {
		entity.AmountAlreadyPaid = paid
	}
	if *days != "" {
		for _, part := range strings.Split(*days, ",") {
			d, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return errors.Errorf("invalid day %q", part)
			}
			entity.CustomDays = append(entity.CustomDays, d)
		}
	}

	added, err := a.client.Entities.Add(ctx, entity, cashflow.Kind(*kind))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, added.ID)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	kind := "expense"
	if len(args) > 0 {
		kind = args[0]
	}

	entities, err := a.client.Entities.List(ctx, cashflow.Kind(kind))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAMOUNT\tFREQUENCY\tSTART\tPRIORITY")
	for _, e := range entities {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%s\n", e.ID, e.Name, e.Amount, e.Frequency, e.StartDate.Key(), e.Priority)
	}
	return w.Flush()
}

func (a *app) balance(ctx context.Context, args []string) error {
	state := a.client.State()
	fs := flag.NewFlagSet("balance", flag.ContinueOnError)
	cash := fs.Float64("cash", state.InitialBalance, "opening cash balance")
	savings := fs.Float64("savings", state.InitialSavings, "opening savings balance")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.client.Entities.SetBalances(ctx, *cash, *savings)
}

func (a *app) goals(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		goals, err := a.client.Goals.List(ctx)
		if err != nil {
			return err
		}
		free, err := a.client.Goals.Free(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCURRENT\tTARGET\tPROGRESS")
		for i := range goals {
			g := &goals[i]
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.0f%%\n", g.ID, g.Name, g.CurrentAmount, g.TargetAmount, g.Progress())
		}
		fmt.Fprintf(w, "\t(free)\t%.2f\t\t\n", free)
		return w.Flush()
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "add", "update":
		fs := flag.NewFlagSet("goals "+sub, flag.ContinueOnError)
		id := fs.String("id", "", "goal id (update only)")
		name := fs.String("name", "", "goal name")
		target := fs.Float64("target", 0, "target amount")
		cover := fs.Int("cover", 0, "cover index")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if sub == "update" {
			return a.client.Goals.Update(ctx, *id, *name, *target, *cover)
		}
		g, err := a.client.Goals.Add(ctx, *name, *target, *cover)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, g.ID)
		return nil
	case "deposit", "withdraw":
		if len(rest) != 2 {
			return errors.Errorf("usage: planner goals %s <id> <amount>", sub)
		}
		amount, err := strconv.ParseFloat(rest[1], 64)
		if err != nil {
			return errors.Wrap(err, "invalid amount")
		}
		if sub == "deposit" {
			return a.client.Goals.Deposit(ctx, rest[0], amount)
		}
		return a.client.Goals.Withdraw(ctx, rest[0], amount)
	case "remove":
		if len(rest) != 1 {
			return errors.New("usage: planner goals remove <id>")
		}
		return a.client.Goals.Remove(ctx, rest[0])
	}
	return errors.Errorf("unknown goals command %q", sub)
}

func (a *app) notes(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: planner notes set|get|search ...")
	}

	switch args[0] {
	case "set", "get":
		if len(args) < 2 {
			return errors.Errorf("usage: planner notes %s <YYYY-MM-DD> [text]", args[0])
		}
		date, err := cashflow.ParseDate(args[1], a.cfg.Timezone)
		if err != nil {
			return err
		}
		if args[0] == "set" {
			return a.client.Notes.Set(ctx, date, strings.Join(args[2:], " "))
		}
		text, err := a.client.Notes.Get(ctx, date)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, text)
		return nil
	case "search":
		notes, err := a.client.Notes.Search(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		for _, n := range notes {
			fmt.Fprintf(a.out, "%s  %s\n", n.Date, n.Title)
		}
		return nil
	}
	return errors.Errorf("unknown notes command %q", args[0])
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
