// cmd/consult/main.go
//
// Command-line front end for the consultations API.
//
// Usage
// -----
//
//	consult submit  -name "علی رضایی" -phone 09121234567 -preferred_date 2026-03-12 -preferred_time 10-12
//	consult submit  -id 42 -city شیراز          (load, edit, PUT)
//	consult list | get -id 42 | delete -id 42
//	consult status  -id 42 -status confirmed -message "تایید شد"
//	consult verify
//
// The base URL and token come from -url / -token, falling back to the
// client section of conf/global.yaml and LAWDESK_CLIENT__* overrides.
// Submit runs the same form controller as the website, so a bad phone
// number is reported locally and never reaches the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/yanizio/lawdesk/internal/client"
	"github.com/yanizio/lawdesk/internal/config"
	"github.com/yanizio/lawdesk/internal/consultation"
	"github.com/yanizio/lawdesk/internal/form"
)

const usage = "usage: consult <submit|list|get|status|delete|verify> [flags]"

var errUsage = errors.New(usage)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one sub-command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}
	cmd, args := args[0], args[1:]

	fs := flag.NewFlagSet("consult "+cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaults := config.Client{}
	if cfg, err := config.Load(); err == nil {
		defaults = cfg.Client
	}
	baseURL := fs.String("url", defaults.BaseURL, "service base URL")
	token := fs.String("token", defaults.Token, "management bearer token")
	public := fs.Bool("public", defaults.Public, "create through the public endpoint")
	timeout := fs.Duration("timeout", 15*time.Second, "request timeout")
	id := fs.Int64("id", 0, "consultation id")
	status := fs.String("status", "", "new status (status command)")
	note := fs.String("message", "", "message")

	values := map[form.Field]*string{}
	for _, f := range form.Fields() {
		if f == form.FieldMessage {
			continue
		}
		values[f] = fs.String(f.Key(), "", f.Label())
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *baseURL == "" {
		fmt.Fprintln(stderr, "consult: -url or client.base_url is required")
		return 2
	}

	opts := []client.Option{client.WithToken(*token)}
	if *public {
		opts = append(opts, client.WithPublic())
	}
	c, err := client.New(*baseURL, opts...)
	if err != nil {
		fmt.Fprintln(stderr, "consult:", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	var out any
	switch cmd {
	case "submit":
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		out, err = submit(ctx, c, *id, values, set, *note)
	case "list":
		out, err = c.List(ctx)
	case "get":
		out, err = needID(*id, func() (any, error) { return c.Get(ctx, *id) })
	case "status":
		out, err = needID(*id, func() (any, error) {
			return c.SetStatus(ctx, *id, consultation.Status(*status), *note)
		})
	case "delete":
		out, err = needID(*id, func() (any, error) { return map[string]int64{"deleted": *id}, c.Delete(ctx, *id) })
	case "verify":
		var who string
		who, err = c.Verify(ctx)
		out = map[string]string{"principal": who}
	default:
		err = errUsage
	}

	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
			return 2
		}
		fmt.Fprintln(stderr, client.UserMessage(err))
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(stderr, "consult:", err)
		return 1
	}
	return 0
}

// submit fills a form controller from the flags and sends it.  With an id
// the stored record is loaded first and only the flags given override it.
func submit(ctx context.Context, c *client.Client, id int64, values map[form.Field]*string, set map[string]bool, note string) (*consultation.Record, error) {
	ctrl := form.New(form.WithOptionalTopic())
	if id > 0 {
		rec, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		ctrl.Load(rec)
	}
	for _, f := range form.Fields() {
		if v, ok := values[f]; ok && (id == 0 || set[f.Key()]) && (*v != "" || set[f.Key()]) {
			ctrl.Set(f, *v)
		}
	}
	if note != "" {
		ctrl.Set(form.FieldMessage, note)
	}
	return c.Submit(ctx, ctrl)
}

func needID(id int64, fn func() (any, error)) (any, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: -id is required", errUsage)
	}
	return fn()
}
