package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/georgemunganga/canteen-backend/internal/cart"
	"github.com/georgemunganga/canteen-backend/internal/client"
	"github.com/georgemunganga/canteen-backend/internal/modules/catalog"
	"github.com/georgemunganga/canteen-backend/internal/modules/order"
	"github.com/georgemunganga/canteen-backend/internal/watch"
)

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func (a *app) menu(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(stderr)
	follow := fs.Bool("watch", false, "keep refreshing the menu and the cart")
	interval := fs.Duration("interval", watch.DefaultMenuInterval, "refresh interval with -watch")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*follow {
		items, err := a.api.ListItems(ctx)
		if err != nil {
			return err
		}
		return a.printMenu(items)
	}

	c, err := cart.Open(a.cartDir)
	if err != nil {
		return err
	}
	w := watch.NewMenuWatcher(a.api, c, *interval, a.log)
	w.OnMenu = func(items []catalog.Item) { a.printMenu(items) }
	w.OnDropped = a.noticeDropped
	w.Run(ctx)
	return nil
}

func (a *app) printMenu(items []catalog.Item) error {
	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tDESCRIPTION")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", it.ID, it.Name, it.Price, it.Description)
	}
	return tw.Flush()
}

func (a *app) tables(ctx context.Context) error {
	tables, err := a.api.ListTables(ctx)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "NUMBER\tLINK\tQR")
	for _, t := range tables {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Number, t.Outgoing, t.QR)
	}
	return tw.Flush()
}

func (a *app) orders(ctx context.Context, args []string, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New("orders: want watch or complete")
	}
	switch args[0] {
	case "watch":
		fs := flag.NewFlagSet("orders watch", flag.ContinueOnError)
		fs.SetOutput(stderr)
		status := fs.String("status", "", "only orders with this status")
		limit := fs.Int("limit", watch.DefaultOrderLimit, "orders fetched per poll")
		interval := fs.Duration("interval", watch.DefaultOrderInterval, "poll interval")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		w := watch.NewOrderWatcher(a.api, watch.OrderOptions{
			Interval: *interval,
			Limit:    *limit,
			Status:   *status,
			OnUpdate: a.printQueue,
		}, a.log)
		w.Run(ctx)
		return nil
	case "complete":
		if len(args) != 2 {
			return errors.New("orders complete: want exactly one order id")
		}
		o, err := a.api.UpdateOrderStatus(ctx, args[1], order.StatusCompleted)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "order %s is %s\n", o.ID, o.Status)
		return nil
	default:
		return fmt.Errorf("orders: unknown subcommand %q", args[0])
	}
}

func (a *app) printQueue(entries []watch.Entry) {
	tw := a.table()
	fmt.Fprintln(tw, "\tTABLE\tTOTAL\tSTATUS\tPLACED\tID")
	for _, e := range entries {
		mark := ""
		if e.Highlighted {
			mark = "NEW"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\t%s\n", mark, e.TableID, e.Total, e.Status,
			e.CreatedAt.Local().Format("15:04:05"), e.ID)
	}
	tw.Flush()
	fmt.Fprintln(a.out)
}

func (a *app) report(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	from := fs.String("from", "", "start date (YYYY-MM-DD)")
	to := fs.String("to", "", "end date, inclusive (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rep, err := a.api.Report(ctx, *from, *to)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Revenue: %.2f over %d orders\n\n", rep.TotalRevenue, rep.OrdersCount)
	tw := a.table()
	fmt.Fprintln(tw, "DATE\tREVENUE\tORDERS")
	for _, d := range rep.ByDay {
		fmt.Fprintf(tw, "%s\t%.2f\t%d\n", d.Day, d.Revenue, d.Orders)
	}
	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintln(tw, "ITEM\tQTY\tREVENUE")
	for _, it := range rep.ByItem {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", it.Name, it.QtySold, it.Revenue)
	}
	return tw.Flush()
}

func (a *app) cart(ctx context.Context, args []string) error {
	c, err := cart.Open(a.cartDir)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("cart: want add, remove or show")
	}

	switch args[0] {
	case "add":
		if len(args) < 2 || len(args) > 3 {
			return errors.New("cart add: want <itemId> [qty]")
		}
		qty := 1
		if len(args) == 3 {
			if qty, err = strconv.Atoi(args[2]); err != nil {
				return fmt.Errorf("cart add: bad quantity %q", args[2])
			}
		}
		items, err := a.api.ListItems(ctx)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.ID.String() == args[1] {
				if err := c.Add(it, qty); err != nil {
					return err
				}
				return a.showCart(c)
			}
		}
		return fmt.Errorf("cart add: item %s is not on the menu", args[1])
	case "remove":
		if len(args) != 2 {
			return errors.New("cart remove: want <itemId>")
		}
		if err := c.Remove(args[1]); err != nil {
			return err
		}
		return a.showCart(c)
	case "show":
		// Refresh against the live menu; an unreachable API still shows the saved cart.
		if items, err := a.api.ListItems(ctx); err == nil {
			dropped, err := c.Reconcile(items)
			if err != nil {
				return err
			}
			a.noticeDropped(dropped)
		} else {
			a.log.Warn("menu unavailable, showing saved cart", "error", err)
		}
		return a.showCart(c)
	default:
		return fmt.Errorf("cart: unknown subcommand %q", args[0])
	}
}

func (a *app) noticeDropped(dropped []cart.Line) {
	for _, l := range dropped {
		fmt.Fprintf(a.out, "%s removed from cart (now unavailable)\n", l.Name)
	}
}

func (a *app) showCart(c *cart.Cart) error {
	lines := c.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "cart is empty")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "ITEM\tQTY\tPRICE\tID")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%s\n", l.Name, l.Qty, l.Price, l.ItemID)
	}
	fmt.Fprintf(tw, "TOTAL\t\t%.2f\t\n", c.Total())
	return tw.Flush()
}

func (a *app) checkout(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(stderr)
	tableID := fs.String("table", "", "table number")
	screenshot := fs.String("screenshot", "", "payment screenshot file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tableID == "" {
		return errors.New("checkout: -table is required")
	}

	c, err := cart.Open(a.cartDir)
	if err != nil {
		return err
	}
	items, err := a.api.ListItems(ctx)
	if err != nil {
		return err
	}
	dropped, err := c.Reconcile(items)
	if err != nil {
		return err
	}
	a.noticeDropped(dropped)
	if len(c.Lines()) == 0 {
		return errors.New("checkout: cart is empty")
	}

	in := client.NewOrder{TableID: *tableID, Items: c.OrderItems(), Total: c.Total()}
	if *screenshot != "" {
		f, err := os.Open(*screenshot)
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		defer f.Close()
		in.Screenshot = &client.Screenshot{Filename: f.Name(), Body: f}
	}
	o, err := a.api.CreateOrder(ctx, in)
	if err != nil {
		return err
	}
	if err := c.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "order %s placed for table %s, total %.2f\n", o.ID, o.TableID, o.Total)
	return nil
}
