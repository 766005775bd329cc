package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
)

type productsCmd struct {
	direction string
}

func (*productsCmd) Name() string     { return "products" }
func (*productsCmd) Synopsis() string { return "list the product catalogue" }
func (*productsCmd) Usage() string {
	return `stockflow products [-direction inward|outward]

  Lists every product with its prices and current stock. With -direction only
  the products that can be put in that cart are shown.
`
}

func (c *productsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.direction, "direction", "", "Only list products selectable for inward or outward.")
}

func (c *productsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var direction models.Direction
	if c.direction != "" {
		d, err := models.ParseDirection(c.direction)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return subcommands.ExitUsageError
		}
		direction = d
	}

	return run(ctx, func(s *session) (string, error) {
		if direction != "" {
			return s.renderer.Products(s.app.Checkout.SelectableProducts(direction))
		}
		return s.renderer.Products(s.app.Ledger.Snapshot().Products)
	})
}

type addProductCmd struct {
	input     models.NewProduct
	buy, sell string
}

func (*addProductCmd) Name() string     { return "add-product" }
func (*addProductCmd) Synopsis() string { return "add a product with zero stock" }
func (*addProductCmd) Usage() string {
	return `stockflow add-product -name <name> -sku <sku> [-category <c>] [-description <d>] [-buy <price>] [-sell <price>]

  Adds a product to the catalogue. Stock starts at zero and only changes through
  purchases and sales.
`
}

func (c *addProductCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input.Name, "name", "", "Product name (required).")
	f.StringVar(&c.input.SKU, "sku", "", "Stock keeping unit (required).")
	f.StringVar(&c.input.Category, "category", "", "Category.")
	f.StringVar(&c.input.Description, "description", "", "Free text description.")
	f.StringVar(&c.buy, "buy", "0", "Default buy price.")
	f.StringVar(&c.sell, "sell", "0", "Default sell price.")
}

func (c *addProductCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input := c.input
	var err error
	if input.DefaultBuyPrice, err = decimal.NewFromString(c.buy); err != nil {
		fmt.Fprintf(stderr, "invalid -buy price %q\n", c.buy)
		return subcommands.ExitUsageError
	}
	if input.DefaultSellPrice, err = decimal.NewFromString(c.sell); err != nil {
		fmt.Fprintf(stderr, "invalid -sell price %q\n", c.sell)
		return subcommands.ExitUsageError
	}

	return run(ctx, func(s *session) (string, error) {
		product, err := s.app.Ledger.AddProduct(ctx, input)
		if err != nil {
			return "", err
		}
		return s.renderer.Products([]models.Product{product})
	})
}

type contactsCmd struct {
	role string
}

func (*contactsCmd) Name() string     { return "contacts" }
func (*contactsCmd) Synopsis() string { return "list buyers and sellers" }
func (*contactsCmd) Usage() string {
	return `stockflow contacts [-role buyer|seller]
`
}

func (c *contactsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.role, "role", "", "Only list contacts with this role.")
}

func (c *contactsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var role models.Role
	if c.role != "" {
		r, err := models.ParseRole(c.role)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return subcommands.ExitUsageError
		}
		role = r
	}

	return run(ctx, func(s *session) (string, error) {
		data := s.app.Ledger.Snapshot()
		if role != "" {
			return s.renderer.Contacts(data.ContactsByRole(role))
		}
		return s.renderer.Contacts(data.Contacts)
	})
}

type addContactCmd struct {
	input models.NewContact
	role  string
}

func (*addContactCmd) Name() string     { return "add-contact" }
func (*addContactCmd) Synopsis() string { return "add a buyer or a seller" }
func (*addContactCmd) Usage() string {
	return `stockflow add-contact -name <name> -role buyer|seller [-email <e>] [-phone <p>]
`
}

func (c *addContactCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input.Name, "name", "", "Contact name (required).")
	f.StringVar(&c.role, "role", "", "buyer or seller (required).")
	f.StringVar(&c.input.Email, "email", "", "Email address.")
	f.StringVar(&c.input.Phone, "phone", "", "Phone number.")
}

func (c *addContactCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	role, err := models.ParseRole(c.role)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitUsageError
	}
	input := c.input
	input.Role = role

	return run(ctx, func(s *session) (string, error) {
		contact, err := s.app.Ledger.AddContact(ctx, input)
		if err != nil {
			return "", err
		}
		return s.renderer.Contacts([]models.Contact{contact})
	})
}
