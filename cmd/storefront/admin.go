package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"storefront/internal/admin"
	"storefront/internal/nav"
)

func (a *app) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: storefront admin <products|orders|reviews|init> [flags]")
	}
	if err := a.open(ctx, nav.RouteEmployee); err != nil {
		return err
	}

	switch args[0] {
	case "products":
		return a.adminProducts(ctx, args[1:])
	case "orders":
		return a.adminOrders(ctx, args[1:])
	case "reviews":
		return a.adminReviews(ctx)
	case "init":
		return a.adminInit(ctx, args[1:])
	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
}

func (a *app) adminProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin products", flag.ContinueOnError)
	edit := fs.Int64("edit", 0, "product to edit")
	seo := fs.Bool("seo", false, "fill the description with a generated SEO text")
	fields := map[string]*string{
		admin.FieldName:        fs.String("name", "", "product name"),
		admin.FieldDescription: fs.String("description", "", "product description"),
		admin.FieldUnitPrice:   fs.String("price", "", "unit price"),
		admin.FieldUnitWeight:  fs.String("weight", "", "unit weight"),
		admin.FieldCategoryID:  fs.String("category", "", "category id"),
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(ctx, nav.RouteEdit); err != nil {
		return err
	}

	editor := admin.NewProductEditor(a.api, a.logger)
	if err := editor.Load(ctx); err != nil {
		fmt.Fprintln(a.out, editor.LoadError())
		return err
	}
	if *edit == 0 {
		return editor.Render(a.out)
	}

	if err := editor.Edit(*edit); err != nil {
		return err
	}
	if *seo {
		if err := editor.GenerateDescription(ctx); err != nil {
			fmt.Fprintln(a.out, editor.SEOError())
			return err
		}
	}

	flagNames := map[string]string{
		"name":        admin.FieldName,
		"description": admin.FieldDescription,
		"price":       admin.FieldUnitPrice,
		"weight":      admin.FieldUnitWeight,
		"category":    admin.FieldCategoryID,
	}
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		field, ok := flagNames[f.Name]
		if !ok || setErr != nil {
			return
		}
		setErr = editor.SetField(field, *fields[field])
	})
	if setErr != nil {
		return setErr
	}

	submitErr := editor.Submit(ctx)
	if err := editor.Render(a.out); err != nil {
		return err
	}
	return submitErr
}

func (a *app) adminOrders(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin orders", flag.ContinueOnError)
	status := fs.Int64("status", 0, "show only orders in this status")
	orderID := fs.Int64("order", 0, "order to update")
	target := fs.Int64("set", 0, "new status id for -order")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(ctx, nav.RouteOrders); err != nil {
		return err
	}

	orders := admin.NewOrdersManager(a.api, a.logger)
	if err := orders.Load(ctx); err != nil {
		fmt.Fprintln(a.out, orders.Error())
		return err
	}

	var changeErr error
	if *orderID != 0 {
		if *target == 0 {
			return errors.New("-order requires -set")
		}
		changeErr = orders.ChangeStatus(ctx, *orderID, *target)
	}
	orders.SetFilter(*status)
	if err := orders.Render(a.out); err != nil {
		return err
	}
	return changeErr
}

func (a *app) adminReviews(ctx context.Context) error {
	if err := a.open(ctx, nav.RouteReviews); err != nil {
		return err
	}
	reviews := admin.NewReviewsManager(a.api, a.logger)
	if err := reviews.Load(ctx); err != nil {
		fmt.Fprintln(a.out, reviews.Error())
		return err
	}
	return reviews.Render(a.out)
}

func (a *app) adminInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin init", flag.ContinueOnError)
	file := fs.String("file", "", "catalog file, local path or s3:// URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.open(ctx, nav.RouteInit); err != nil {
		return err
	}

	dbInit := admin.NewDBInit(a.api, a.loader, a.logger)
	if err := dbInit.LoadExisting(ctx); err != nil {
		fmt.Fprintln(a.out, dbInit.Error())
		return err
	}
	if *file == "" {
		return dbInit.Render(a.out)
	}

	if err := dbInit.LoadFile(ctx, *file); err != nil {
		_ = dbInit.Render(a.out)
		return err
	}
	initErr := dbInit.Initialize(ctx)
	if err := dbInit.Render(a.out); err != nil {
		return err
	}
	return initErr
}
