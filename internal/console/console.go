// Package console is the interactive text menu over the retail services.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kobe-cb/retail/internal/modules/admin"
	"github.com/kobe-cb/retail/internal/modules/auth"
	"github.com/kobe-cb/retail/internal/modules/inventory"
	"github.com/kobe-cb/retail/internal/modules/order"
	"github.com/kobe-cb/retail/internal/modules/user"
)

// errInvalidInput aborts a prompt sequence after a malformed answer.
var errInvalidInput = errors.New("your input is invalid")

// refusals are errors shown to the user as-is; anything else is logged.
var refusals = []error{
	errInvalidInput,
	user.ErrNotFound, user.ErrUnknownRole, user.ErrInvalidCode, user.ErrInvalidSignUp,
	auth.ErrInvalidCredentials, auth.ErrNotAuthenticated, auth.ErrNotManager, auth.ErrNotAdmin,
	auth.ErrNotStoreManager, auth.ErrProductNotAtStore,
	order.ErrInvalidUnits, order.ErrInsufficientInventory, order.ErrOutOfRange,
	inventory.ErrStoreNotFound, inventory.ErrWarehouseNotFound, inventory.ErrNoChanges,
	inventory.ErrInvalidPatch, inventory.ErrInvalidUnits,
}

// Services are the domain operations the menus drive.
type Services struct {
	Users     user.Service
	Auth      auth.Service
	Orders    order.Service
	Inventory inventory.Service
	Admin     admin.Service
}

// Console reads choices from in and writes menus and results to out.
type Console struct {
	in      *bufio.Scanner
	out     io.Writer
	svc     Services
	radius  float64
	session *auth.Session
}

// New creates a console. radius only labels the store listing.
func New(in io.Reader, out io.Writer, svc Services, radius float64) *Console {
	return &Console{in: bufio.NewScanner(in), out: out, svc: svc, radius: radius}
}

// Run shows the welcome menu until the user exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.println("========= WELCOME! =========")
		c.println("---------------------------")
		c.println("      Sign up / Log in     ")
		c.println("---------------------------")
		c.println("1. Sign up / Create User")
		c.println("2. Log in")
		c.println("9. < EXIT")

		choice, err := c.readChoice()
		if err != nil {
			return ignoreEOF(err)
		}
		switch choice {
		case 1:
			err = c.signUp(ctx)
		case 2:
			if err = c.logIn(ctx); err == nil {
				err = c.userMenu(ctx)
			}
		case 9:
			return nil
		default:
			c.println("Unrecognized choice!")
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			c.fail(err)
		}
	}
}

func (c *Console) userMenu(ctx context.Context) error {
	c.println("\nSuccessfully logged in!\n")
	for {
		c.println("---------------------------")
		c.printf("MAIN MENU of %s (%d)\n", c.session.Role, c.session.UserID)
		c.println("---------------------------\n")

		var actions map[int]func(context.Context) error
		switch c.session.Role {
		case user.RoleCustomer:
			c.printf("1. View Stores within %g miles\n2. View Product List\n3. Place a Order\n4. View 5 recent orders\n", c.radius)
			actions = map[int]func(context.Context) error{
				1: c.viewStores,
				2: c.viewProducts,
				3: c.placeOrder,
				4: c.viewRecentOrders,
			}
		case user.RoleManager:
			c.println("1. Update Product\n2. View 5 recent Product Updates Info\n3. View 5 Popular Items\n4. View 5 Popular Customers\n5. Place Product Supply Request to Warehouse")
			actions = map[int]func(context.Context) error{
				1: c.updateProduct,
				2: c.viewRecentUpdates,
				3: c.viewPopularProducts,
				4: c.viewPopularCustomers,
				5: c.placeSupplyRequest,
			}
		case user.RoleAdmin:
			c.println("1. View user information\n2. Update user information\n3. View product information\n4. Update product information")
			actions = map[int]func(context.Context) error{
				1: c.adminViewUser,
				2: c.adminUpdateUser,
				3: c.adminViewProduct,
				4: c.adminUpdateProduct,
			}
		}
		c.println("0. Log out\n")

		choice, err := c.readChoice()
		if err != nil {
			return err
		}
		if choice == 0 {
			return nil
		}
		action, ok := actions[choice]
		if !ok {
			c.println("Unrecognized choice!")
			continue
		}
		if err := action(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			c.fail(err)
		}
	}
}

// fail reports err and returns control to the menu. Refusals go to the
// user; anything else is an external failure and is logged.
func (c *Console) fail(err error) {
	for _, r := range refusals {
		if errors.Is(err, r) {
			c.printf("ERR: %v\n", err)
			return
		}
	}
	log.Printf("[ERROR] %v", err)
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// ---- input ----

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.in.Text(), nil
}

func (c *Console) prompt(label string) (string, error) {
	c.printf("%s", label)
	return c.readLine()
}

// promptValue reads a numeric answer without surrounding blanks. Text
// answers go through prompt unchanged.
func (c *Console) promptValue(label string) (string, error) {
	line, err := c.prompt(label)
	return strings.TrimSpace(line), err
}

// readChoice asks until it gets an integer.
func (c *Console) readChoice() (int, error) {
	for {
		line, err := c.promptValue("Please make your choice: ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		c.println("Your input is invalid!")
	}
}

func (c *Console) promptInt(label string) (int, error) {
	line, err := c.promptValue(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", errInvalidInput, line)
	}
	return n, nil
}

func (c *Console) promptFloat(label string) (float64, error) {
	line, err := c.promptValue(label)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errInvalidInput, line)
	}
	return f, nil
}

func (c *Console) promptDecimal(label string) (decimal.Decimal, error) {
	line, err := c.promptValue(label)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(line)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a price", errInvalidInput, line)
	}
	return d, nil
}

// confirm asks a 1. Yes / 2. No question.
func (c *Console) confirm(question string) (bool, error) {
	c.println(question)
	c.println("1. Yes\n2. No")
	choice, err := c.readChoice()
	return choice == 1, err
}

// ---- output ----

func (c *Console) println(s string) { fmt.Fprintln(c.out, s) }

func (c *Console) printf(format string, args ...interface{}) { fmt.Fprintf(c.out, format, args...) }
