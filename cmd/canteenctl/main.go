// Command canteenctl is the terminal console for canteen owners and customers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/georgemunganga/canteen-backend/internal/client"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/joho/godotenv"
)

const usage = `usage: canteenctl [flags] <command>

commands:
  menu [-watch]                         list available items
  tables                                list tables with their links
  orders watch [-status s]              follow the order queue
  orders complete <id>                  mark an order completed
  report [-from date] [-to date]        revenue report
  cart add <itemId> [qty]               add an item to the cart
  cart remove <itemId>                  remove an item from the cart
  cart show                             show the cart
  checkout -table n -screenshot file    place an order from the cart

flags:
`

// app holds what every subcommand needs.
type app struct {
	api     *client.Client
	cartDir string
	out     io.Writer
	log     *logger.Logger
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "canteenctl:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("canteenctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api", envOr("CANTEEN_API", "http://localhost:8080/api"), "API base URL")
	token := fs.String("token", os.Getenv("CANTEEN_TOKEN"), "owner session token")
	cartDir := fs.String("cart-dir", envOr("CANTEEN_CART_DIR", defaultCartDir()), "directory holding cart.json")
	logLevel := fs.String("log-level", envOr("LOG_LEVEL", "warn"), "log level")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	a := &app{
		api:     client.New(*apiURL, *token, nil),
		cartDir: *cartDir,
		out:     stdout,
		log:     logger.New(stderr, *logLevel, "text"),
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "menu":
		return a.menu(ctx, rest, stderr)
	case "tables":
		return a.tables(ctx)
	case "orders":
		return a.orders(ctx, rest, stderr)
	case "report":
		return a.report(ctx, rest, stderr)
	case "cart":
		return a.cart(ctx, rest)
	case "checkout":
		return a.checkout(ctx, rest, stderr)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultCartDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".canteen"
	}
	return filepath.Join(home, ".canteen")
}
