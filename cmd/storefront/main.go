package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/order"
	"storefront/internal/product"
)

// terminalNavigator tracks the current "route" for the 401 redirect contract.
type terminalNavigator struct {
	path string
}

func (n *terminalNavigator) Path() string { return n.path }
func (n *terminalNavigator) Go(path string) {
	n.path = path
	fmt.Printf("-> redirected to %s\n", path)
}

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	nav := &terminalNavigator{path: "/"}
	a := app.New(cfg, nav)

	ctx := context.Background()
	a.Bootstrap(ctx)

	if st := a.Session.State(); st.IsAuthenticated {
		fmt.Printf("welcome back, %s\n", st.User.Name)
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("commands: login | logout | products | search <text> | cart | add <id> <qty> | remove <id> | checkout <address> | quit")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit":
			return
		case "login":
			nav.path = "/login"
			login(ctx, a, scanner)
			nav.path = "/"
		case "logout":
			a.Logout()
			fmt.Println("logged out")
		case "products":
			listProducts(ctx, a)
		case "search":
			searchProducts(a, strings.Join(args[1:], " "))
		case "cart":
			showCart(a)
		case "add":
			addToCart(ctx, a, args[1:])
		case "remove":
			if len(args) < 2 {
				fmt.Println("usage: remove <product-id>")
				continue
			}
			if err := a.Cart.Remove(ctx, args[1]); err != nil {
				fmt.Println("error:", err)
			}
		case "checkout":
			checkout(ctx, a, strings.Join(args[1:], " "))
		default:
			fmt.Println("unknown command:", args[0])
		}
	}
}

func login(ctx context.Context, a *app.App, scanner *bufio.Scanner) {
	fmt.Print("email: ")
	if !scanner.Scan() {
		return
	}
	email := strings.TrimSpace(scanner.Text())

	fmt.Print("password: ")
	if !scanner.Scan() {
		return
	}
	password := strings.TrimSpace(scanner.Text())

	if err := a.Login(ctx, email, password); err != nil {
		fmt.Println("login failed:", err)
		return
	}
	fmt.Printf("hello, %s\n", a.Session.State().User.Name)
}

func listProducts(ctx context.Context, a *app.App) {
	if err := a.Products.FetchPage(ctx, product.Filter{Sort: product.SortName}); err != nil {
		fmt.Println("error:", err)
		return
	}

	st := a.Products.State()
	printProducts(st.Items)
	fmt.Printf("page 1 of %d (%d products)\n", st.TotalPages, st.Total)
}

// searchProducts shows the instant local overlay and then the debounced
// server result once it lands.
func searchProducts(a *app.App, term string) {
	local := product.ApplyLocal(a.Products.State().Items, term, product.SortName)
	fmt.Printf("local matches (%d):\n", len(local))
	printProducts(local)

	done := make(chan struct{}, 1)
	unsubscribe := a.Products.Subscribe(func(st product.State) {
		if !st.Loading {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})
	defer unsubscribe()

	a.Searcher.Query(term)
	select {
	case <-done:
	case <-time.After(a.Config.SearchDebounce + a.Config.HTTPTimeout):
		fmt.Println("search timed out")
		return
	}

	st := a.Products.State()
	fmt.Printf("server matches (%d):\n", st.Total)
	printProducts(st.Items)
}

func printProducts(items []product.Product) {
	for _, p := range items {
		fmt.Printf("%-10s %-30s $%8.2f  stock %d\n", p.ID, p.Name, p.Price, p.Stock)
	}
}

func showCart(a *app.App) {
	st := a.Cart.State()
	if len(st.Items) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, it := range st.Items {
		fmt.Printf("%-10s %-30s x%d  $%8.2f\n", it.Product.ID, it.Product.Name, it.Quantity, it.Product.Price)
	}
	t := a.Cart.Totals()
	fmt.Printf("subtotal $%.2f  tax $%.2f  total $%.2f\n", t.Subtotal, t.Tax, t.Total)
}

func addToCart(ctx context.Context, a *app.App, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: add <product-id> [qty]")
		return
	}
	qty := 1
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			qty = n
		}
	}

	p, err := product.NewGateway(a.Client).Get(ctx, args[0])
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := a.Cart.Add(ctx, *p, qty); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("added %s x%d (%d items in cart)\n", p.Name, qty, a.Cart.ItemCount())
}

func checkout(ctx context.Context, a *app.App, address string) {
	o, err := a.Orders.Create(ctx, order.CreateInput{
		Items:           a.Cart.State().Items,
		ShippingAddress: address,
		PaymentMethod:   "card",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if err := a.Cart.Clear(ctx); err != nil {
		fmt.Println("warning: cart not cleared:", err)
	}
	fmt.Printf("order %s placed, status %s\n", o.ID, o.Status)
}
