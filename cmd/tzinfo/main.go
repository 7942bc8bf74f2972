// Command tzinfo prints the compiled history of one zone.
//
//	tzinfo [-r source_dir] [--files a,b] [--now RFC3339] <zone>
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/ngrash/tzjson/tzc"
	"github.com/ngrash/tzjson/tzdata"
	"github.com/ngrash/tzjson/tzdb/ianadist"
)

var (
	sourceDirFlag = pflag.StringP("source_dir", "r", ".", "Directory holding the tzdata files")
	filesFlag     = pflag.StringSlice("files", ianadist.DefaultFiles, "Region files to read")
	nowFlag       = pflag.String("now", "", "RFC 3339 instant that \"present\" resolves to")
	rulesFlag     = pflag.Bool("rules", true, "Print the transitions of the applicable rules")
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	pflag.Parse()
	args := pflag.Args()
	if len(args) != 1 {
		return fmt.Errorf("Usage: tzinfo [flags] <zone>")
	}

	now := time.Now()
	if *nowFlag != "" {
		t, err := time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			return fmt.Errorf("--now: %w", err)
		}
		now = t
	}

	files, err := ianadist.LoadDir(afero.NewOsFs(), *sourceDirFlag, *filesFlag, tzdata.WithNow(now.Unix()))
	if err != nil {
		return err
	}
	compiled, err := tzc.Compile(files...)
	if err != nil {
		return err
	}
	zones, ok := compiled.Zones[args[0]]
	if !ok {
		return fmt.Errorf("zone %q not found in %s", args[0], strings.Join(*filesFlag, ", "))
	}
	printZone(os.Stdout, args[0], zones, *rulesFlag)
	return nil
}

func printZone(out io.Writer, name string, zones []tzc.Zone, withRules bool) {
	fmt.Fprintln(out, "Zone", name)
	for _, z := range zones {
		fmt.Fprintf(out, "\n  %s .. %s  offset %s  format %s  rules %s\n", z.From, z.To, z.Offset, z.Format, rulesText(z.Rules))

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, iv := range z.Intervals() {
			fmt.Fprintf(w, "    %s\t%s\t%s\n", iv.From, iv.To, iv.Rule)
		}
		_ = w.Flush()

		if !withRules {
			continue
		}
		for _, r := range z.Applicable {
			fmt.Fprintf(out, "    %s %v..%v\n", r.Label(), r.From, r.To)
			printTransition(out, "start", r.Start)
			printTransition(out, "end", r.End)
		}
	}
}

func printTransition(out io.Writer, kind string, t *tzdata.Transition) {
	if t == nil {
		return
	}
	fmt.Fprintf(out, "      %-5s %s %s %s%s save %s letter %q\n", kind, t.Month.String()[:3], t.On, t.At, t.Ref.Char(), t.Save, t.Letter)
}

func rulesText(r tzdata.ZoneRules) string {
	switch r.Form {
	case tzdata.ZoneRulesName:
		return r.Name
	case tzdata.ZoneRulesTime:
		return "save " + r.Save.String()
	default:
		return "-"
	}
}
