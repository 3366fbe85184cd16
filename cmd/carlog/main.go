// Command carlog is the terminal view over the vehicle-maintenance store:
// it renders the derived views and forwards user actions to the store.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"carlog/internal/cli"
	"carlog/internal/config"
	"carlog/internal/core"
	"carlog/internal/log"
	"carlog/internal/services"
	"carlog/internal/store"
)

const usage = `carlog - personal vehicle maintenance tracker

Usage:
  carlog [dashboard]                          show stats, recent work, reminders, spending
  carlog vehicles [list]                      list vehicles
  carlog vehicles add -make M -model M ...    add a vehicle
  carlog vehicles update -id ID [fields]      update vehicle fields
  carlog vehicles delete -id ID [-y]          delete a vehicle and its history
  carlog services [list] [-q text] [-vehicle ID]
  carlog services add -vehicle ID -type T -date YYYY-MM-DD ...
  carlog services update -id ID [fields]
  carlog services delete -id ID [-y]
  carlog reminders [list]
  carlog reminders add -vehicle ID -type T -due YYYY-MM-DD [-mileage N] [-status S]
  carlog reminders delete -id ID [-y]

Environment:
  CARLOG_BACKEND   memory | sqlite (default sqlite)
  CARLOG_DB_PATH   sqlite database path (default ./data/carlog.db)
  LOG_LEVEL        debug | info | warn | error
`

type app struct {
	store   *store.Store
	garage  *services.GarageService
	reports *services.Reports
	logger  *log.Logger
	in      *bufio.Reader
	out     io.Writer
}

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)
	cli.ValidateConfig(logger, cfg)

	st, cleanup := cli.InitStore(context.Background(), logger, cfg)

	a := &app{
		store:   st,
		garage:  services.NewGarageService(st, logger),
		reports: services.NewReports(st, cfg.RecentLimit, logger),
		logger:  logger.WithComponent(log.ComponentCLI),
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	code := a.run(os.Args[1:])

	if err := cleanup(); err != nil {
		logger.Warn("Cleanup failed", log.FieldError, err)
	}
	os.Exit(code)
}

func (a *app) run(args []string) int {
	cmd := "dashboard"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}
	switch cmd {
	case "dashboard":
		return a.dashboard()
	case "vehicles":
		return a.vehicles(args)
	case "services":
		return a.services(args)
	case "reminders":
		return a.reminders(args)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
}

func (a *app) dashboard() int {
	d := a.reports.Dashboard()

	fmt.Fprintf(a.out, "Vehicles: %d   Service records: %d   Total spent: %s   Overdue reminders: %d\n\n",
		d.VehicleCount, d.RecordCount, d.TotalSpent, d.OverdueCount)

	fmt.Fprintln(a.out, "Recent Maintenance")
	if len(d.Recent) == 0 {
		fmt.Fprintln(a.out, "  no service records yet")
	} else {
		w := newTable(a.out)
		for _, r := range d.Recent {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", r.Date, r.Type, r.VehicleName, r.Cost, r.Shop)
		}
		w.Flush()
	}

	fmt.Fprintln(a.out, "\nUpcoming Reminders")
	if len(d.Reminders) == 0 {
		fmt.Fprintln(a.out, "  no reminders set")
	} else {
		w := newTable(a.out)
		for _, r := range d.Reminders {
			due := fmt.Sprintf("due %s", r.DueDate)
			if r.DueMileage > 0 {
				due += fmt.Sprintf(" or %d mi", r.DueMileage)
			}
			fmt.Fprintf(w, "  [%s]\t%s\t%s\t%s\n", r.Status, r.Type, r.VehicleName, due)
		}
		w.Flush()
	}

	fmt.Fprintln(a.out, "\nSpending by Category")
	if len(d.ByCategory) == 0 {
		fmt.Fprintln(a.out, "  no spending data yet")
	} else {
		w := newTable(a.out)
		for _, c := range d.ByCategory {
			fmt.Fprintf(w, "  %s\t%s\n", c.Type, c.Total)
		}
		w.Flush()
	}

	fmt.Fprintln(a.out, "\nMonthly Spending")
	w := newTable(a.out)
	for _, m := range d.ByMonth {
		fmt.Fprintf(w, "  %s\t%s\n", m.Label, m.Total)
	}
	w.Flush()
	return 0
}

func (a *app) vehicles(args []string) int {
	sub, args := subcommand(args)
	switch sub {
	case "list":
		w := newTable(a.out)
		fmt.Fprintf(w, "  ID\tVEHICLE\tMILEAGE\tCOLOR\tPLATE\n")
		for _, v := range a.store.Vehicles() {
			fmt.Fprintf(w, "  %s\t%d %s %s\t%d\t%s\t%s\n",
				v.ID, v.Year, v.Make, v.Model, v.Mileage, v.Color, v.LicensePlate)
		}
		w.Flush()
		return 0

	case "add":
		fs := flag.NewFlagSet("vehicles add", flag.ExitOnError)
		in := services.VehicleInput{}
		fs.StringVar(&in.Make, "make", "", "manufacturer")
		fs.StringVar(&in.Model, "model", "", "model name")
		fs.StringVar(&in.Year, "year", "", "model year")
		fs.StringVar(&in.Mileage, "mileage", "", "current odometer reading")
		fs.StringVar(&in.Color, "color", "", "color")
		fs.StringVar(&in.LicensePlate, "plate", "", "license plate")
		fs.StringVar(&in.ImageURL, "image", "", "image URL")
		fs.Parse(args)
		id := a.garage.AddVehicle(in)
		fmt.Fprintf(a.out, "added vehicle %s\n", id)
		return 0

	case "update":
		fs := flag.NewFlagSet("vehicles update", flag.ExitOnError)
		id := fs.String("id", "", "vehicle id (required)")
		fs.String("make", "", "manufacturer")
		fs.String("model", "", "model name")
		fs.String("year", "", "model year")
		fs.String("mileage", "", "current odometer reading")
		fs.String("color", "", "color")
		fs.String("plate", "", "license plate")
		fs.String("image", "", "image URL")
		fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "missing required -id")
			return 2
		}
		var patch core.VehiclePatch
		fs.Visit(func(f *flag.Flag) {
			v := f.Value.String()
			switch f.Name {
			case "make":
				patch.Make = &v
			case "model":
				patch.Model = &v
			case "year":
				n := services.CoerceInt(v)
				patch.Year = &n
			case "mileage":
				n := services.CoerceInt(v)
				patch.Mileage = &n
			case "color":
				patch.Color = &v
			case "plate":
				patch.LicensePlate = &v
			case "image":
				patch.ImageURL = &v
			}
		})
		a.garage.UpdateVehicle(*id, patch)
		fmt.Fprintf(a.out, "updated vehicle %s\n", *id)
		return 0

	case "delete":
		fs := flag.NewFlagSet("vehicles delete", flag.ExitOnError)
		id := fs.String("id", "", "vehicle id (required)")
		yes := fs.Bool("y", false, "skip confirmation")
		fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "missing required -id")
			return 2
		}
		if !*yes && !a.confirm("Delete this vehicle and all of its service records and reminders?") {
			fmt.Fprintln(a.out, "aborted")
			return 0
		}
		a.garage.DeleteVehicle(*id)
		fmt.Fprintf(a.out, "deleted vehicle %s\n", *id)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "unknown vehicles subcommand %q\n", sub)
		return 2
	}
}

func (a *app) services(args []string) int {
	sub, args := subcommand(args)
	switch sub {
	case "list":
		fs := flag.NewFlagSet("services list", flag.ExitOnError)
		query := fs.String("q", "", "free-text search over type, shop, notes, vehicle")
		vehicle := fs.String("vehicle", "all", "filter by vehicle id")
		fs.Parse(args)
		rows := a.reports.ServiceHistory(*query, *vehicle)
		if len(rows) == 0 {
			fmt.Fprintln(a.out, "no matching service records")
			return 0
		}
		w := newTable(a.out)
		fmt.Fprintf(w, "  ID\tDATE\tTYPE\tVEHICLE\tCOST\tSHOP\tNOTES\n")
		for _, r := range rows {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Date, r.Type, r.VehicleName, r.Cost, r.Shop, r.Notes)
		}
		w.Flush()
		return 0

	case "add":
		fs := flag.NewFlagSet("services add", flag.ExitOnError)
		in := services.ServiceRecordInput{}
		fs.StringVar(&in.VehicleID, "vehicle", "", "vehicle id")
		fs.StringVar(&in.Type, "type", string(core.OtherRepairs), "service type")
		fs.StringVar(&in.Date, "date", "", "service date (YYYY-MM-DD)")
		fs.StringVar(&in.Mileage, "mileage", "", "odometer at service time")
		fs.StringVar(&in.Cost, "cost", "", "cost, e.g. 64.99")
		fs.StringVar(&in.Shop, "shop", "", "shop name")
		fs.StringVar(&in.Notes, "notes", "", "notes")
		fs.Parse(args)
		id := a.garage.AddServiceRecord(in)
		fmt.Fprintf(a.out, "added service record %s\n", id)
		return 0

	case "update":
		fs := flag.NewFlagSet("services update", flag.ExitOnError)
		id := fs.String("id", "", "service record id (required)")
		fs.String("vehicle", "", "vehicle id")
		fs.String("type", "", "service type")
		fs.String("date", "", "service date (YYYY-MM-DD)")
		fs.String("mileage", "", "odometer at service time")
		fs.String("cost", "", "cost, e.g. 64.99")
		fs.String("shop", "", "shop name")
		fs.String("notes", "", "notes")
		fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "missing required -id")
			return 2
		}
		var patch core.ServiceRecordPatch
		fs.Visit(func(f *flag.Flag) {
			v := f.Value.String()
			switch f.Name {
			case "vehicle":
				patch.VehicleID = &v
			case "type":
				if t := core.ServiceType(v); t.Valid() {
					patch.Type = &t
				} else {
					a.logger.Warn("ignoring unknown service type", log.FieldServiceType, v)
				}
			case "date":
				if d, err := core.ParseDate(v); err == nil {
					patch.Date = &d
				} else {
					a.logger.Warn("ignoring unparseable date", log.FieldError, err)
				}
			case "mileage":
				n := services.CoerceInt(v)
				patch.Mileage = &n
			case "cost":
				c := services.CoerceCost(v)
				patch.Cost = &c
			case "shop":
				patch.Shop = &v
			case "notes":
				patch.Notes = &v
			}
		})
		a.garage.UpdateServiceRecord(*id, patch)
		fmt.Fprintf(a.out, "updated service record %s\n", *id)
		return 0

	case "delete":
		fs := flag.NewFlagSet("services delete", flag.ExitOnError)
		id := fs.String("id", "", "service record id (required)")
		yes := fs.Bool("y", false, "skip confirmation")
		fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "missing required -id")
			return 2
		}
		if !*yes && !a.confirm("Delete this service record?") {
			fmt.Fprintln(a.out, "aborted")
			return 0
		}
		a.garage.DeleteServiceRecord(*id)
		fmt.Fprintf(a.out, "deleted service record %s\n", *id)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "unknown services subcommand %q\n", sub)
		return 2
	}
}

func (a *app) reminders(args []string) int {
	sub, args := subcommand(args)
	switch sub {
	case "list":
		d := a.reports.Dashboard()
		if len(d.Reminders) == 0 {
			fmt.Fprintln(a.out, "no reminders set")
			return 0
		}
		w := newTable(a.out)
		fmt.Fprintf(w, "  ID\tSTATUS\tTYPE\tVEHICLE\tDUE\n")
		for _, r := range d.Reminders {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", r.ID, r.Status, r.Type, r.VehicleName, r.DueDate)
		}
		w.Flush()
		return 0

	case "add":
		fs := flag.NewFlagSet("reminders add", flag.ExitOnError)
		in := services.ReminderInput{}
		fs.StringVar(&in.VehicleID, "vehicle", "", "vehicle id")
		fs.StringVar(&in.Type, "type", string(core.OilChange), "service type")
		fs.StringVar(&in.DueDate, "due", "", "due date (YYYY-MM-DD)")
		fs.StringVar(&in.DueMileage, "mileage", "", "due mileage (optional)")
		fs.StringVar(&in.Status, "status", string(core.StatusOK), "overdue | soon | ok")
		fs.Parse(args)
		id := a.garage.AddReminder(in)
		fmt.Fprintf(a.out, "added reminder %s\n", id)
		return 0

	case "delete":
		fs := flag.NewFlagSet("reminders delete", flag.ExitOnError)
		id := fs.String("id", "", "reminder id (required)")
		yes := fs.Bool("y", false, "skip confirmation")
		fs.Parse(args)
		if *id == "" {
			fmt.Fprintln(os.Stderr, "missing required -id")
			return 2
		}
		if !*yes && !a.confirm("Delete this reminder?") {
			fmt.Fprintln(a.out, "aborted")
			return 0
		}
		a.garage.DeleteReminder(*id)
		fmt.Fprintf(a.out, "deleted reminder %s\n", *id)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "unknown reminders subcommand %q\n", sub)
		return 2
	}
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func subcommand(args []string) (string, []string) {
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0], args[1:]
	}
	return "list", args
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}
