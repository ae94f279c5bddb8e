package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/dianpeng/plan2cc/cg"
	"github.com/dianpeng/plan2cc/ingest"
	"github.com/dianpeng/plan2cc/jit"
	"github.com/dianpeng/plan2cc/queries"
	"github.com/dianpeng/plan2cc/schema"
)

var (
	fQuery = flag.String(
		"query",
		"filter",
		"name of the built-in query to compile",
	)
	fData = flag.String(
		"data",
		"data",
		"path to the column file directory",
	)
	fRepeat = flag.Uint(
		"repeat",
		1,
		"wrap the query body in a perf-repeat loop running it N times",
	)
	fOutput = flag.String(
		"output",
		"",
		"specify path to save the emitted program, default write to STDOUT",
	)
	fRun = flag.Bool(
		"run",
		false,
		"compile the emitted program with -compiler and execute it against -data",
	)
	fCompiler = flag.String(
		"compiler",
		"c++",
		"C++ compiler used with -run",
	)
	fImport = flag.String(
		"import",
		"",
		"import TPC-H .tbl files from this directory into -data, then exit",
	)
	fSchema = flag.Bool(
		"schema",
		false,
		"print the catalog and exit",
	)
	fList = flag.Bool(
		"list",
		false,
		"list the built-in queries and exit",
	)
)

func oops(stage string, err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "ERROR [%s]]] %s\n", stage, err)
	os.Exit(-1)
}

func printSchema(cat *schema.Catalog) {
	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader([]string{"Relation", "Attribute", "Type"})
	for _, name := range cat.Names() {
		rel, err := cat.Relation(name)
		if err != nil {
			oops("schema", err)
		}
		for _, att := range rel.Attributes {
			w.Append([]string{name, att.Name, att.Type.String()})
		}
	}
	w.Render()
}

func main() {
	flag.Parse()
	cat := schema.TPCH()

	if *fSchema {
		printSchema(cat)
		os.Exit(0)
	}

	if *fList {
		for _, n := range queries.Names() {
			fmt.Println(n)
		}
		os.Exit(0)
	}

	if *fImport != "" {
		if _, err := ingest.Directory(*fData, *fImport, cat, ingest.DefaultOptions()); err != nil {
			oops("import", err)
		}
		os.Exit(0)
	}

	builder, err := queries.Get(*fQuery)
	if err != nil {
		oops("query", err)
	}

	ctx := cg.NewContext()
	q, err := builder(ctx, cat)
	if err != nil {
		oops("compose", err)
	}
	cg.ProduceAndPrint(ctx, q.Root, q.Out, *fRepeat)
	fragment := ctx.Source()

	if *fRun {
		cfg := jit.DefaultConfig()
		cfg.Compiler = *fCompiler
		out, err := cfg.Run(cat, fragment, *fData)
		if err != nil {
			oops("run", err)
		}
		fmt.Print(out)
		os.Exit(0)
	}

	if *fOutput == "" {
		fmt.Printf("%s\n", fragment)
	} else {
		if err := os.WriteFile(
			*fOutput,
			[]byte(fragment),
			0644,
		); err != nil {
			oops("save", err)
		}
	}
	os.Exit(0)
}
