// Command wzs is a developer CLI over the same components the server wires:
// it mints JWT and CSRF tokens, stores uploads, sends mail and runs SQL.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/wzs-web/internal/auth"
	"github.com/and161185/wzs-web/internal/clock"
	"github.com/and161185/wzs-web/internal/config"
	"github.com/and161185/wzs-web/internal/csrf"
	"github.com/and161185/wzs-web/internal/db"
	"github.com/and161185/wzs-web/internal/db/connect"
	"github.com/and161185/wzs-web/internal/image"
	"github.com/and161185/wzs-web/internal/notify"
	"github.com/and161185/wzs-web/internal/upload"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

var errUsage = errors.New("usage")

// env is everything a subcommand may touch.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	stdin  io.Reader
	stdout io.Writer
}

const usageText = `wzs CLI
Usage:
  wzs <cmd> [args]

Commands:
  version
  token   -id <uint> [-ttl 48h]                 (needs JWT_SECRET)
  csrf                                          (mints with CSRF_SECRET or a random key)
  upload  -file <path|-> [-name n] [-type ct]   (stores under UPLOAD_ROOT)
  mail    -subject s -text t [-to a,b]          (SMTP_* or log sender)
  sql     -q <query> [args...]                  (DATABASE_URL; args bind as strings)
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, _ := zap.NewDevelopment()
	if log == nil {
		log = zap.NewNop()
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	e := env{cfg: cfg, log: log, stdin: os.Stdin, stdout: os.Stdout}
	if err := run(ctx, e, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usageText)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run dispatches one subcommand.
func run(ctx context.Context, e env, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "version":
		_, err := fmt.Fprintf(e.stdout, "wzs %s (%s)\n", version, buildDate)
		return err
	case "token":
		return cmdToken(e, rest)
	case "csrf":
		return cmdCSRF(e)
	case "upload":
		return cmdUpload(ctx, e, rest)
	case "mail":
		return cmdMail(ctx, e, rest)
	case "sql":
		return cmdSQL(ctx, e, rest)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func cmdToken(e env, args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	id := fs.Uint64("id", 0, "subject id")
	ttl := fs.Duration("ttl", e.cfg.Auth.TTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if !e.cfg.Auth.Enabled() {
		return errors.New("JWT_SECRET is not set")
	}
	tok, err := auth.CreateJWTWithTTL(*id, e.cfg.Auth.Secret, *ttl)
	if err != nil {
		return err
	}
	// cookie value in the shape the server expects: {"token": "..."}
	cookie, _ := json.Marshal(map[string]string{"token": tok})
	return printJSON(e.stdout, map[string]string{
		"token":  tok,
		"cookie": e.cfg.Auth.CookieName + "=" + string(cookie),
	})
}

func cmdCSRF(e env) error {
	tok, err := csrf.Generate(e.cfg.CSRF)
	if err != nil {
		return err
	}
	return printJSON(e.stdout, map[string]any{"csrfToken": tok, "enforced": e.cfg.CSRF.Enabled})
}

func cmdUpload(ctx context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	file := fs.String("file", "", "path or - for stdin")
	name := fs.String("name", "", "original filename (default: base of -file)")
	ct := fs.String("type", "", "content type (default: by extension)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *file == "" {
		return fmt.Errorf("%w: need -file", errUsage)
	}

	data, err := readAll(e.stdin, *file)
	if err != nil {
		return err
	}
	if *name == "" && *file != "-" {
		*name = filepath.Base(*file)
	}
	if *ct == "" {
		*ct = mime.TypeByExtension(filepath.Ext(*name))
		if i := strings.IndexByte(*ct, ';'); i >= 0 {
			*ct = (*ct)[:i]
		}
		if *ct == "" {
			*ct = "application/octet-stream"
		}
	}

	storage, err := upload.NewLocalStorage(e.cfg.Upload.Root)
	if err != nil {
		return err
	}
	clk, err := clock.NewSystem(e.cfg.Timezone)
	if err != nil {
		return err
	}
	svc := upload.NewService(storage, image.Imaging{}, clk, e.cfg.Upload, e.cfg.Image)
	res, err := svc.Upload(ctx, *name, *ct, data)
	if err != nil {
		return err
	}
	return printJSON(e.stdout, upload.Response{
		Path:             "/" + res.Key,
		OriginalFilename: *name,
		Bytes:            res.Bytes,
		ContentType:      res.ContentType,
	})
}

func cmdMail(ctx context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("mail", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	subject := fs.String("subject", "", "subject")
	text := fs.String("text", "", "plain-text body, - for stdin")
	to := fs.String("to", "", "comma separated recipients (default NOTIFY_TO_EMAIL)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *subject == "" {
		return fmt.Errorf("%w: need -subject", errUsage)
	}
	body := *text
	if body == "-" {
		b, err := io.ReadAll(e.stdin)
		if err != nil {
			return err
		}
		body = string(b)
	}

	sender := notify.New(e.cfg, e.log)
	if sender == nil {
		return errors.New("mail is not configured")
	}
	var rcpts []string
	for _, s := range strings.Split(*to, ",") {
		if s = strings.TrimSpace(s); s != "" {
			rcpts = append(rcpts, s)
		}
	}
	if err := sender.Send(ctx, notify.Email{Subject: *subject, Body: notify.Text(body), To: rcpts}); err != nil {
		return err
	}
	_, err := fmt.Fprintln(e.stdout, "ok")
	return err
}

func cmdSQL(ctx context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("sql", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	q := fs.String("q", "", "query")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *q == "" {
		return fmt.Errorf("%w: need -q", errUsage)
	}

	database, closeDB, err := connect.Open(ctx, e.cfg.DB, e.log)
	if err != nil {
		return err
	}
	defer closeDB()
	if database == nil {
		return errors.New("DATABASE_URL is not set")
	}
	return runSQL(ctx, e.stdout, database, *q, fs.Args())
}

// runSQL prints SELECT-like results as JSON rows and anything else as the
// affected row count.
func runSQL(ctx context.Context, w io.Writer, database db.DB, q string, args []string) error {
	params := make([]db.Param, 0, len(args))
	for _, a := range args {
		params = append(params, db.Str(a))
	}

	if !isQuery(q) {
		n, err := database.Exec(ctx, q, params...)
		if err != nil {
			return err
		}
		return printJSON(w, map[string]uint64{"affected": n})
	}

	rows, err := database.FetchAll(ctx, q, params...)
	if err != nil {
		return err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		m := make(map[string]any, r.Len())
		for _, col := range r.Columns() {
			v, _ := r.Get(col)
			m[col] = jsonValue(v)
		}
		out = append(out, m)
	}
	return printJSON(w, out)
}

func jsonValue(v db.Value) any {
	switch v.Kind {
	case db.KindI64:
		return v.I64
	case db.KindU64:
		return v.U64
	case db.KindF32:
		return v.F32
	case db.KindF64:
		return v.F64
	case db.KindBool:
		return v.Bool
	case db.KindString:
		return v.Str
	case db.KindDateTime:
		return v.Time.Format("2006-01-02 15:04:05.999999")
	case db.KindBin:
		return "0x" + hex.EncodeToString(v.Bin)
	}
	return nil
}

func isQuery(q string) bool {
	f := strings.Fields(q)
	if len(f) == 0 {
		return false
	}
	switch strings.ToUpper(f[0]) {
	case "SELECT", "SHOW", "WITH", "EXPLAIN", "DESCRIBE", "VALUES":
		return true
	}
	return false
}

// ---- utils ----

func readAll(stdin io.Reader, p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(p)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
