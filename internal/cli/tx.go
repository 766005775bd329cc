package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/checkout"
)

// lineSpec is one -line value: productId:qty[@price].
type lineSpec struct {
	ProductID string
	Quantity  int
	Price     string
}

func parseLineSpec(s string) (lineSpec, error) {
	item, price, _ := strings.Cut(s, "@")
	id, qty, ok := strings.Cut(item, ":")
	if !ok || strings.TrimSpace(id) == "" {
		return lineSpec{}, fmt.Errorf("line %q: want productId:qty[@price]", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil {
		return lineSpec{}, fmt.Errorf("line %q: quantity must be a whole number", s)
	}
	return lineSpec{ProductID: strings.TrimSpace(id), Quantity: n, Price: strings.TrimSpace(price)}, nil
}

// lineList collects repeated -line flags.
type lineList []lineSpec

func (l *lineList) String() string {
	parts := make([]string, 0, len(*l))
	for _, spec := range *l {
		s := spec.ProductID + ":" + strconv.Itoa(spec.Quantity)
		if spec.Price != "" {
			s += "@" + spec.Price
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ",")
}

func (l *lineList) Set(s string) error {
	spec, err := parseLineSpec(s)
	if err != nil {
		return err
	}
	*l = append(*l, spec)
	return nil
}

type txCmd struct {
	direction models.Direction
	contact   string
	notes     string
	lines     lineList
}

func (c *txCmd) Name() string { return strings.ToLower(string(c.direction)) }

func (c *txCmd) Synopsis() string {
	if c.direction == models.Inward {
		return "record a purchase from a seller"
	}
	return "record a sale to a buyer"
}

func (c *txCmd) Usage() string {
	return fmt.Sprintf(`stockflow %s -contact <contactId> -line <productId:qty[@price]> [-line ...] [-notes <text>]

  Builds a cart from the -line flags and commits it. Without @price the
  product's default %s price is used. Sales cannot exceed the current stock.
`, c.Name(), map[models.Direction]string{models.Inward: "buy", models.Outward: "sell"}[c.direction])
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.contact, "contact", "", "Counterparty contact id (required).")
	f.StringVar(&c.notes, "notes", "", "Free text notes.")
	f.Var(&c.lines, "line", "Cart line as productId:qty[@price]. Repeatable.")
}

func (c *txCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.contact == "" || len(c.lines) == 0 {
		fmt.Fprintln(stderr, "-contact and at least one -line are required")
		return subcommands.ExitUsageError
	}

	return run(ctx, func(s *session) (string, error) {
		for _, line := range c.lines {
			if _, err := s.app.Checkout.AddToCart(c.direction, line.ProductID, line.Quantity, line.Price); err != nil {
				return "", fmt.Errorf("line %s: %w", line.ProductID, err)
			}
		}

		tx, err := s.app.Checkout.Checkout(ctx, c.direction, c.contact, c.notes)
		if errors.Is(err, checkout.ErrUnknownContact) || errors.Is(err, checkout.ErrRoleMismatch) {
			return "", errors.Join(err, counterpartyHint(s, c.direction))
		}
		if err != nil {
			return "", err
		}
		return s.renderer.Receipt(tx)
	})
}

func counterpartyHint(s *session, direction models.Direction) error {
	contacts := s.app.Checkout.Counterparties(direction)
	ids := make([]string, 0, len(contacts))
	for _, contact := range contacts {
		ids = append(ids, contact.ID+" ("+contact.Name+")")
	}
	return fmt.Errorf("valid contacts: %s", strings.Join(ids, ", "))
}
