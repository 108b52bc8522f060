package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"storefront/internal/account"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/catalogfile"
	"storefront/internal/checkout"
	"storefront/internal/gateway"
	"storefront/internal/nav"
	"storefront/internal/review"
	"storefront/internal/session"
	"storefront/internal/storage"

	"github.com/rs/zerolog"
)

var errRedirected = errors.New("access denied")

type app struct {
	out    io.Writer
	logger zerolog.Logger
	store  storage.Store
	sess   *session.Session
	nav    *nav.Navigator
	api    *gateway.Client
	cart   *cart.Cart
	loader catalogfile.Loader
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "catalog":
		return a.catalog(ctx, rest)
	case "buy":
		return a.buy(ctx, rest)
	case "cart":
		return a.cartCmd(ctx, rest)
	case "checkout":
		return a.checkout(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "logout":
		a.sess.Logout(ctx)
		fmt.Fprintf(a.out, "Logged out, now at %s\n", a.nav.Location())
		return nil
	case "review":
		return a.review(ctx, rest)
	case "links":
		return a.links(ctx)
	case "admin":
		return a.admin(ctx, rest)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}
}

// open navigates to route and reports a guard redirect as an error.
func (a *app) open(ctx context.Context, route string) error {
	reached, err := a.nav.Navigate(ctx, route)
	if err != nil {
		return err
	}
	if reached != route {
		fmt.Fprintf(a.out, "Redirected to %s\n", reached)
		return fmt.Errorf("%w: %s", errRedirected, route)
	}
	return nil
}

func (a *app) catalog(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	search := fs.String("search", "", "filter by name")
	category := fs.Int64("category", 0, "filter by category id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(ctx, nav.RouteHome); err != nil {
		return err
	}

	view := catalog.NewView(a.api, a.cart, a.logger)
	if err := view.Load(ctx); err != nil {
		fmt.Fprintln(a.out, view.Error())
		return err
	}
	view.SetSearch(*search)
	view.SetCategory(*category)
	return view.Render(a.out)
}

func (a *app) buy(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: storefront buy <product-id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	if err := a.open(ctx, nav.RouteHome); err != nil {
		return err
	}

	view := catalog.NewView(a.api, a.cart, a.logger)
	if err := view.Load(ctx); err != nil {
		fmt.Fprintln(a.out, view.Error())
		return err
	}
	if err := view.Buy(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added to cart (%d items)\n", a.cart.Count())
	return nil
}

func (a *app) cartCmd(ctx context.Context, args []string) error {
	if err := a.open(ctx, nav.RouteCart); err != nil {
		return err
	}
	view := checkout.NewView(a.api, a.cart, a.logger)

	if len(args) > 0 {
		switch {
		case args[0] == "set" && len(args) == 3:
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			qty, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
			view.SetQuantity(ctx, index, qty)
		case args[0] == "remove" && len(args) == 2:
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			view.Remove(ctx, index)
		default:
			return errors.New("usage: storefront cart [set <index> <quantity> | remove <index>]")
		}
	}
	return view.Render(a.out)
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	name := fs.String("name", "", "customer name")
	email := fs.String("email", "", "contact email")
	phone := fs.String("phone", "", "nine digit phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(ctx, nav.RouteCart); err != nil {
		return err
	}

	view := checkout.NewView(a.api, a.cart, a.logger)
	view.SetForm(checkout.Form{CustomerName: *name, Email: *email, Phone: *phone})
	submitErr := view.Submit(ctx)
	if err := view.Render(a.out); err != nil {
		return err
	}
	return submitErr
}

func credentialFlags(name string, args []string) (email, password string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&email, "email", "", "account email")
	fs.StringVar(&password, "password", "", "account password")
	err = fs.Parse(args)
	return email, password, err
}

func (a *app) login(ctx context.Context, args []string) error {
	email, password, err := credentialFlags("login", args)
	if err != nil {
		return err
	}
	if err := a.open(ctx, nav.RouteLogin); err != nil {
		return err
	}

	forms := account.New(a.api, a.sess, a.nav, a.logger)
	if err := forms.Login(ctx, email, password); err != nil {
		fmt.Fprintln(a.out, forms.LoginError())
		return err
	}
	role, _ := a.sess.CurrentRole(ctx)
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", email, role)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	email, password, err := credentialFlags("register", args)
	if err != nil {
		return err
	}
	if err := a.open(ctx, nav.RouteRegister); err != nil {
		return err
	}

	forms := account.New(a.api, a.sess, a.nav, a.logger)
	if err := forms.Register(ctx, email, password); err != nil {
		fmt.Fprintln(a.out, forms.RegisterError())
		return err
	}
	fmt.Fprintln(a.out, forms.RegisterMessage())
	return nil
}

func (a *app) review(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("review", flag.ContinueOnError)
	orderID := fs.Int64("order", 0, "order to review")
	rating := fs.Int("rating", 0, "rating from 1 to 5")
	text := fs.String("text", "", "review text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(ctx, nav.RouteReview); err != nil {
		return err
	}

	form := review.NewForm(a.api, a.sess, a.nav, a.logger)
	if err := form.Load(ctx); err != nil {
		fmt.Fprintln(a.out, form.Error())
		return err
	}
	if *orderID == 0 {
		return form.Render(a.out)
	}

	if err := form.Open(*orderID); err != nil {
		return err
	}
	form.SetRating(*rating)
	form.SetText(*text)
	submitErr := form.Submit(ctx)
	if err := form.Render(a.out); err != nil {
		return err
	}
	return submitErr
}

func (a *app) links(ctx context.Context) error {
	badge := nav.NewCartBadge(ctx, a.store, a.logger)
	defer badge.Close()

	claims, ok := a.sess.Claims(ctx)
	var links []nav.Link
	if ok {
		links = nav.Links(claims.Role, true)
	} else {
		links = nav.Links("", false)
	}
	for _, l := range links {
		if l.Path == nav.RouteCart {
			fmt.Fprintf(a.out, "%-14s %s (%d)\n", l.Path, l.Title, badge.Count())
			continue
		}
		fmt.Fprintf(a.out, "%-14s %s\n", l.Path, l.Title)
	}
	return nil
}
