// Command steakz-pos is the counter and kitchen terminal for the Steakz API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/steakz-restaurant/client/api"
	"github.com/yeremiapane/steakz-restaurant/client/cart"
	"github.com/yeremiapane/steakz-restaurant/client/checkout"
	"github.com/yeremiapane/steakz-restaurant/client/orders"
	"github.com/yeremiapane/steakz-restaurant/client/session"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

const usage = `usage: steakz-pos [flags] <command> [args]

commands:
  login                     log in with -username/-password and keep the session
  logout                    end the saved session
  menu                      list available menu items
  orders                    list orders with the actions you can take
  status ID STATUS          move an order to STATUS
  cancel ID                 cancel an order
  pay ID                    mark an order as paid
  checkout ITEM[:QTY]...    place an order (ITEM is a menu item id)
  watch                     follow order events as they happen
  receipt ID                issue and print the receipt (-pdf, -out FILE)`

var errUsage = errors.New(usage)

func main() {
	cfg, args, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	utils.InitLogger(cfg.LogLevel, "text")
	utils.InfoLogger.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, args, os.Stdout, utils.InfoLogger); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// pos holds one command invocation's wiring.
type pos struct {
	cfg    *Config
	out    io.Writer
	log    logrus.FieldLogger
	client *api.Client
	sess   *session.Session
}

func run(ctx context.Context, cfg *Config, args []string, out io.Writer, log logrus.FieldLogger) error {
	if len(args) == 0 {
		return errUsage
	}
	client := api.New(cfg.Server, api.WithTimeout(cfg.Timeout), api.WithLogger(log))
	p := &pos{
		cfg:    cfg,
		out:    out,
		log:    log,
		client: client,
		sess:   session.New(client, session.NewFileTokenStore(cfg.TokenFile)),
	}

	cmd, rest := args[0], args[1:]
	if cmd == "logout" {
		return p.logout(ctx)
	}
	if err := p.connect(ctx); err != nil {
		return err
	}

	switch cmd {
	case "login":
		u := p.sess.User()
		fmt.Fprintf(out, "Logged in as %s (%s)\n", u.Username, u.Role)
		return nil
	case "menu":
		return p.menu(ctx)
	case "orders":
		return p.orders(ctx)
	case "status":
		if len(rest) != 2 {
			return errUsage
		}
		return p.apply(ctx, rest[0], models.OrderStatus(strings.ToUpper(rest[1])))
	case "cancel":
		if len(rest) != 1 {
			return errUsage
		}
		return p.apply(ctx, rest[0], models.OrderCancelled)
	case "pay":
		if len(rest) != 1 {
			return errUsage
		}
		return p.pay(ctx, rest[0])
	case "checkout":
		return p.checkout(ctx, rest)
	case "watch":
		return p.watch(ctx)
	case "receipt":
		if len(rest) != 1 {
			return errUsage
		}
		return p.receipt(ctx, rest[0])
	}
	return errUsage
}

func (p *pos) connect(ctx context.Context) error {
	ok, err := p.sess.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if ok {
		return nil
	}
	if p.cfg.Username == "" {
		return errors.New("not logged in: run `steakz-pos -username NAME -password PASS login`")
	}
	if _, err := p.sess.Login(ctx, p.cfg.Username, p.cfg.Password); err != nil {
		return errors.New(api.Message(err, "Login failed"))
	}
	return nil
}

func (p *pos) logout(ctx context.Context) error {
	if _, err := p.sess.Restore(ctx); err != nil {
		p.log.WithError(err).Warn("could not verify saved session")
	}
	if err := p.sess.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "Logged out")
	return nil
}

func (p *pos) menu(ctx context.Context) error {
	items, err := p.client.Menu(ctx, true)
	if err != nil {
		return errors.New(api.Message(err, "Failed to load menu"))
	}
	tw := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tITEM\tCATEGORY\tPRICE")
	for _, m := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.Name, m.Category, utils.FormatEuro(m.Price))
	}
	return tw.Flush()
}

func (p *pos) board(ctx context.Context) (*orders.Board, error) {
	b := orders.NewBoard(p.client, p.sess.User().Role, orders.WithLogger(p.log))
	if err := b.Refresh(ctx); err != nil {
		return nil, errors.New(api.Message(err, "Failed to load orders"))
	}
	return b, nil
}

func (p *pos) orders(ctx context.Context) error {
	b, err := p.board(ctx)
	if err != nil {
		return err
	}
	printBoard(p.out, b)
	return nil
}

func printBoard(w io.Writer, b *orders.Board) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tCUSTOMER\tITEMS\tTOTAL\tSTATUS\tPAYMENT\tACTIONS")
	for _, o := range b.Orders() {
		var labels []string
		for _, a := range orders.Actions(b.Role(), o) {
			labels = append(labels, fmt.Sprintf("%s [%s]", a.Label, a.Target))
		}
		fmt.Fprintf(tw, "#%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
			o.ID, o.CustomerLabel(), o.ItemCount(), utils.FormatEuro(o.Total),
			o.Status, o.PaymentStatus, strings.Join(labels, ", "))
	}
	tw.Flush()
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid order id %q", s)
	}
	return uint(id), nil
}

func (p *pos) apply(ctx context.Context, rawID string, target models.OrderStatus) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	b, err := p.board(ctx)
	if err != nil {
		return err
	}
	updated, err := b.Apply(ctx, id, target)
	switch {
	case errors.Is(err, orders.ErrTransitionNotOffered):
		return fmt.Errorf("order #%d cannot be set to %s", id, target)
	case errors.Is(err, orders.ErrUnknownOrder):
		return fmt.Errorf("order #%d not found", id)
	case err != nil:
		return errors.New(api.Message(err, "Failed to update order status"))
	}
	fmt.Fprintf(p.out, "Order #%d is now %s\n", updated.ID, updated.Status)
	return nil
}

func (p *pos) pay(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	order, err := p.client.CompletePayment(ctx, id)
	if err != nil {
		return errors.New(api.Message(err, "Failed to complete payment"))
	}
	fmt.Fprintf(p.out, "Order #%d payment %s\n", order.ID, order.PaymentStatus)
	return nil
}

type orderLine struct {
	menuItemID uint
	quantity   int
}

// parseLines reads ITEM[:QTY] words. Repeated items add up.
func parseLines(args []string) ([]orderLine, error) {
	var lines []orderLine
	for _, arg := range args {
		idPart, qtyPart, hasQty := strings.Cut(arg, ":")
		id, err := strconv.ParseUint(idPart, 10, 0)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid menu item %q", arg)
		}
		qty := 1
		if hasQty {
			qty, err = strconv.Atoi(qtyPart)
			if err != nil || qty <= 0 {
				return nil, fmt.Errorf("invalid quantity in %q", arg)
			}
		}
		lines = append(lines, orderLine{menuItemID: uint(id), quantity: qty})
	}
	return lines, nil
}

func (p *pos) checkout(ctx context.Context, args []string) error {
	lines, err := parseLines(args)
	if err != nil {
		return err
	}
	payment := models.PaymentMethod(strings.ToUpper(p.cfg.Payment))

	var order *models.Order
	if p.sess.User().Role.IsStaff() {
		order, err = p.counterCheckout(ctx, lines, payment)
	} else {
		order, err = p.customerCheckout(ctx, lines, payment)
	}
	if err != nil {
		return errors.New(checkout.FailureMessage(err))
	}
	fmt.Fprintf(p.out, "Order #%d placed for %s: %s (%s)\n",
		order.ID, order.CustomerLabel(), utils.FormatEuro(order.Total), order.Status)
	return nil
}

func (p *pos) counterCheckout(ctx context.Context, lines []orderLine, payment models.PaymentMethod) (*models.Order, error) {
	t := checkout.NewTerminal(p.client, p.sess, p.log)
	if err := t.Load(ctx); err != nil {
		return nil, err
	}
	for _, l := range lines {
		t.SetQuantity(l.menuItemID, t.Quantity(l.menuItemID)+l.quantity)
	}
	t.SetDiscount(p.cfg.Discount, models.DiscountType(strings.ToUpper(p.cfg.DiscountType)))
	t.SetPaymentMethod(payment)
	t.SetWalkIn(p.cfg.WalkInName, p.cfg.WalkInPhone)
	fmt.Fprintf(p.out, "Subtotal %s, total %s\n", utils.FormatEuro(t.Subtotal()), utils.FormatEuro(t.DisplayedTotal()))
	return t.Checkout(ctx)
}

// customerCheckout adds the lines to the server cart and checks it out.
func (p *pos) customerCheckout(ctx context.Context, lines []orderLine, payment models.PaymentMethod) (*models.Order, error) {
	store := cart.NewStore(p.client, p.sess, cart.WithLogger(p.log))
	p.sess.OnLogout(store.Reset)
	for _, l := range lines {
		if err := store.Add(ctx, l.menuItemID, l.quantity); err != nil {
			return nil, err
		}
	}
	fmt.Fprintf(p.out, "Cart: %d items, %s\n", store.ItemCount(), utils.FormatEuro(store.Total()))

	req := checkout.CustomerRequest{PaymentMethod: payment}
	if p.cfg.Branch != 0 {
		branch := p.cfg.Branch
		req.BranchID = &branch
	}
	return checkout.NewCustomerFlow(p.client, store, p.log).Checkout(ctx, req)
}

// watch prints order events and re-lists the board after each one, with a
// periodic refresh in case the stream goes quiet.
func (p *pos) watch(ctx context.Context) error {
	b, err := p.board(ctx)
	if err != nil {
		return err
	}
	printBoard(p.out, b)

	poller := orders.NewPoller(b.Refresh, orders.DefaultPollInterval, orders.WithPollerLogger(p.log))
	watcher := orders.NewWatcher(orders.ClientSource(p.client), func(ev models.OrderEvent) {
		fmt.Fprintf(p.out, "[%d] order #%d %s %s\n", ev.ID, ev.OrderID, ev.Type, ev.Status)
		poller.Trigger()
	}, orders.WithWatcherLogger(p.log))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		poller.Run(ctx)
	}()
	err = watcher.Run(ctx)
	cancel()
	<-done
	if api.IsUnauthorized(err) {
		return errors.New("session expired, log in again")
	}
	return err
}

func (p *pos) receipt(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	receipt, err := p.client.GenerateReceipt(ctx, id)
	if err != nil {
		return errors.New(api.Message(err, "Failed to generate receipt"))
	}

	w := p.out
	if p.cfg.Out != "" {
		f, err := os.Create(p.cfg.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if p.cfg.PDF {
		pdf, err := p.client.ReceiptPDF(ctx, id)
		if err != nil {
			return errors.New(api.Message(err, "Failed to download receipt"))
		}
		_, err = w.Write(pdf)
		return err
	}
	return orders.RenderReceiptHTML(w, receipt)
}
