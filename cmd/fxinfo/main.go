// Command fxinfo prints the parameter descriptors of the registered effect
// types.
//
// Usage:
//
//	fxinfo [flags] [effect-id ...]
//
// Without arguments it prints every registered effect.
//
// Examples:
//
//	fxinfo
//	fxinfo algofx.reverb
//	fxinfo -json
//	fxinfo -list
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-fxhost/dsp/effectchain"
)

func main() {
	asJSON := flag.Bool("json", false, "print descriptors as JSON")
	list := flag.Bool("list", false, "list registered effect ids")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fxinfo [flags] [effect-id ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints parameter descriptors of the registered effect types.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	reg := effectchain.DefaultRegistry()

	if *list {
		for _, m := range reg.Manifests() {
			fmt.Println(m.ID)
		}

		return
	}

	manifests := selectManifests(reg, flag.Args(), os.Stderr)
	if len(manifests) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching effect types\n")
		os.Exit(1)
	}

	var err error
	if *asJSON {
		err = writeJSON(os.Stdout, manifests)
	} else {
		err = writeTable(os.Stdout, manifests)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func selectManifests(reg *effectchain.Registry, ids []string, warn io.Writer) []*effectchain.Manifest {
	if len(ids) == 0 {
		return reg.Manifests()
	}

	var out []*effectchain.Manifest
	for _, id := range ids {
		id = strings.TrimSpace(id)

		m := reg.Manifest(id)
		if m == nil {
			fmt.Fprintf(warn, "warning: unknown effect %q (use -list to see available)\n", id)
			continue
		}

		out = append(out, m)
	}

	return out
}

func writeJSON(w io.Writer, manifests []*effectchain.Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(manifests)
}

func writeTable(w io.Writer, manifests []*effectchain.Manifest) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for i, m := range manifests {
		if i > 0 {
			fmt.Fprintln(tw)
		}

		fmt.Fprintf(tw, "%s\t%s\tramps from dry: %t\n", m.ID, m.Name, m.EffectRampsFromDry)
		fmt.Fprintf(tw, "Index\tID\tName\tMin\tDefault\tMax\tControl\tUnits\tLink\n")
		fmt.Fprintf(tw, "-----\t--\t----\t---\t-------\t---\t-------\t-----\t----\n")

		for j, p := range m.Parameters {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%g\t%g\t%g\t%s\t%s\t%s\n",
				j, p.ID, p.Name, p.Minimum, p.Default, p.Maximum, p.ControlHint, p.UnitsHint, p.DefaultLinkType)
		}
	}

	return tw.Flush()
}
