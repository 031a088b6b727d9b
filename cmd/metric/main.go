// Command metric evaluates natural-language unit-conversion queries against
// a loaded universe definition file.
//
// Diagnostics are written to stderr, and main delegates to a small run()
// that returns an integer exit code, keeping main itself a one-liner.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gnapse/metric"
)

const appName = "metric"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	unitsFile := fs.String("units", defaultUnitsFile(), "path to the universe definition file")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-units FILE] query[, query ...]\n", appName)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	src, err := os.ReadFile(*unitsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, *unitsFile, err)
		return 1
	}

	univ, err := metric.ParseUniverseFile(string(src), *unitsFile, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}

	queryLine := strings.Join(rest, " ")
	failed := false
	for _, q := range strings.Split(queryLine, ",") {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		result, err := metric.ParseQuery(univ, q)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			failed = true
			continue
		}
		fmt.Println(result.ResultString())
	}
	if failed {
		return 1
	}
	return 0
}

func defaultUnitsFile() string {
	if v := os.Getenv("METRIC_UNITS_FILE"); v != "" {
		return v
	}
	return "units.def"
}
