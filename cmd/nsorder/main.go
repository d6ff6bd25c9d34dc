package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"

	nsconnector "github.com/reoring/nsconnector"
	"github.com/reoring/nsconnector/config"
	"github.com/reoring/nsconnector/connector"
	"github.com/reoring/nsconnector/i18n"
	"github.com/reoring/nsconnector/orderinjection"
	"github.com/reoring/nsconnector/source"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "validate":
		return validateCmd(args[1:], stdout, stderr)
	case "schema":
		return schemaCmd(args[1:], stdout, stderr)
	case "create":
		return createCmd(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "nsorder\n\nUsage:\n  nsorder validate -f order.json [-lang en|ja]\n  nsorder schema\n  nsorder create -f order.json [-env .env]\n\nFiles ending in .yaml or .yml are read as YAML.")
}

func validateCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var file, lang string
	fs.StringVar(&file, "f", "", "payload file")
	fs.StringVar(&lang, "lang", "en", "message language (en|ja)")
	if err := fs.Parse(args); err != nil || file == "" {
		fs.Usage()
		return 2
	}
	i18n.SetLanguage(lang)

	doc, err := source.File(file, source.Options{})
	if err != nil {
		return report(stdout, stderr, err)
	}
	res, err := orderinjection.OrderSchema().Evaluate(doc.Value)
	if err != nil {
		fmt.Fprintf(stderr, "nsorder: %v\n", err)
		return 1
	}
	iss := append(doc.Issues, res.Issues()...)
	if len(iss) > 0 {
		return report(stdout, stderr, iss)
	}
	fmt.Fprintln(stdout, "ok")
	return 0
}

func schemaCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(orderinjection.OrderSchema().JSONSchema()); err != nil {
		fmt.Fprintf(stderr, "nsorder: %v\n", err)
		return 1
	}
	return 0
}

func createCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var file, envFile string
	fs.StringVar(&file, "f", "", "payload file")
	fs.StringVar(&envFile, "env", ".env", "dotenv file loaded before the environment")
	if err := fs.Parse(args); err != nil || file == "" {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(stderr, "nsorder: %v\n", err)
		return 1
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	doc, err := source.File(file, source.Options{})
	if err != nil {
		return report(stdout, stderr, err)
	}
	if len(doc.Issues) > 0 {
		return report(stdout, stderr, doc.Issues)
	}
	payload, ok := doc.Object()
	if !ok {
		fmt.Fprintf(stderr, "nsorder: %v\n", nsconnector.ErrNotObject)
		return 1
	}

	conn, err := connector.New(cfg, connector.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "nsorder: %v\n", err)
		return 1
	}
	var out map[string]any
	if err := conn.OrderInjection.CreateOrder(context.Background(), payload, &out); err != nil {
		return report(stdout, stderr, err)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
	return 0
}

// report prints issues carried by err as a path to messages map, or the
// error itself otherwise.
func report(stdout, stderr io.Writer, err error) int {
	iss, ok := nsconnector.AsIssues(err)
	if !ok {
		fmt.Fprintf(stderr, "nsorder: %v\n", err)
		return 1
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(nsconnector.NewResult(iss).Errors())
	return 1
}
