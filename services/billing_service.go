package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yeremiapane/resto-pos/broadcast"
	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/store"
	"github.com/yeremiapane/resto-pos/utils"
)

// TaxRate is fixed at 5%.
const TaxRate = 0.05

// BillingService runs one computation (subtotal, 5% tax, discount, total)
// behind three terminal effects: save, bill, checkout.
type BillingService struct {
	store    store.Store
	notifier broadcast.Notifier
	channel  MenuChannel // nil when no digital-menu channel is wired
}

func NewBillingService(st store.Store, notifier broadcast.Notifier, channel MenuChannel) *BillingService {
	return &BillingService{store: st, notifier: notifier, channel: channel}
}

type BillInput struct {
	Discount    string                `json:"discount"`
	PaymentMode string                `json:"payment_mode"`
	Splits      []models.SplitPayment `json:"splits,omitempty"`
	// WithInvoice asks SaveOrder for a Saved invoice; Bill and Checkout
	// always emit one.
	WithInvoice bool `json:"with_invoice"`
}

type BillResult struct {
	Order        *models.Order   `json:"order"`
	Invoice      *models.Invoice `json:"invoice,omitempty"`
	PrintReceipt bool            `json:"print_receipt"`
}

type billTotals struct {
	subtotal float64
	tax      float64
	discount float64
	total    float64
}

func (s *BillingService) computeTotals(items []models.OrderItem, discount string) (billTotals, error) {
	var t billTotals
	for _, it := range items {
		t.subtotal += utils.MustParseAmount(it.Price) * float64(it.Quantity)
	}
	t.tax = t.subtotal * TaxRate

	d, err := utils.ParseAmount(discount)
	if err != nil {
		return t, validationErr("%v", err)
	}
	if d < 0 {
		return t, validationErr("discount must not be negative")
	}
	t.discount = d
	t.total = t.subtotal + t.tax - t.discount
	return t, nil
}

// validateSplits rejects split payments whose amounts are not all strictly
// positive or whose sum strays more than 0.01 from the bill total.
func validateSplits(splits []models.SplitPayment, total float64) error {
	if len(splits) == 0 {
		return nil
	}
	var sum float64
	for i, sp := range splits {
		amount, err := utils.ParseAmount(sp.Amount)
		if err != nil {
			return validationErr("split %d: %v", i+1, err)
		}
		if amount <= 0 {
			return validationErr("split %d: amount must be positive", i+1)
		}
		sum += amount
	}
	if !utils.AmountsEqual(sum, total) {
		return validationErr("split payments sum to %s, bill total is %s",
			utils.FormatAmount(sum), utils.FormatAmount(total))
	}
	return nil
}

// SaveOrder parks the order in saved, optionally emitting a Saved invoice
// for the print-and-settle-later flow.
func (s *BillingService) SaveOrder(orderID uint, in BillInput, printReceipt bool) (*BillResult, error) {
	order, totals, err := s.prepare(orderID, in.Discount)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderPaid || order.Status == models.OrderCompleted {
		return nil, validationErr("order %d is already %s", orderID, order.Status)
	}

	if err := s.store.UpdateOrderStatus(orderID, models.OrderSaved); err != nil {
		return nil, err
	}
	order.Status = models.OrderSaved

	res := &BillResult{Order: order, PrintReceipt: printReceipt}
	if in.WithInvoice {
		inv, err := s.createInvoice(order, totals, in, models.InvoiceSaved)
		if err != nil {
			return nil, err
		}
		res.Invoice = inv
		s.notifier.Publish(broadcast.EventInvoiceCreated, inv)
	}

	s.notifier.Publish(broadcast.EventOrderUpdate, order)
	return res, nil
}

// Bill moves the order to billed and emits a Billed invoice. The table stays
// occupied; only checkout frees it.
func (s *BillingService) Bill(orderID uint, in BillInput, printReceipt bool) (*BillResult, error) {
	order, totals, err := s.prepare(orderID, in.Discount)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderPaid || order.Status == models.OrderCompleted {
		return nil, validationErr("order %d is already %s", orderID, order.Status)
	}

	if err := s.store.BillOrder(orderID, time.Now()); err != nil {
		return nil, err
	}
	order.Status = models.OrderBilled

	inv, err := s.createInvoice(order, totals, in, models.InvoiceBilled)
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(broadcast.EventOrderUpdate, order)
	s.notifier.Publish(broadcast.EventInvoiceCreated, inv)
	return &BillResult{Order: order, Invoice: inv, PrintReceipt: printReceipt}, nil
}

// Checkout settles the order. Side effects run in a fixed sequence: (a) the
// order goes to paid with PaidAt/CompletedAt stamped, (b) a bound table is
// detached and freed, (c) the Paid invoice is created, (d) inventory is
// deducted per recipe best-effort, (e) order_paid then invoice_created are
// broadcast. Re-checkout of a paid or completed order is rejected before
// any write.
func (s *BillingService) Checkout(orderID uint, in BillInput, printReceipt bool) (*BillResult, error) {
	order, totals, err := s.prepare(orderID, in.Discount)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderPaid || order.Status == models.OrderCompleted {
		return nil, validationErr("order %d is already %s", orderID, order.Status)
	}
	if err := validateSplits(in.Splits, totals.total); err != nil {
		return nil, err
	}

	mode := in.PaymentMode
	if mode == "" {
		mode = "cash"
	}
	in.PaymentMode = mode

	// (a) pay
	if err := s.store.CheckoutOrder(orderID, mode, time.Now()); err != nil {
		return nil, err
	}
	order.Status = models.OrderPaid
	order.PaymentMode = mode

	// (b) free the table
	if order.TableID != nil {
		if err := s.store.UpdateTableOrder(*order.TableID, nil); err != nil {
			return nil, err
		}
		if err := s.store.UpdateTableStatus(*order.TableID, models.TableFree); err != nil {
			return nil, err
		}
		s.notifier.Publish(broadcast.EventTableUpdate, map[string]interface{}{
			"table_id": *order.TableID,
			"status":   models.TableFree,
		})
	}
	s.mirrorTableFree(order)

	// (c) invoice
	inv, err := s.createInvoice(order, totals, in, models.InvoicePaid)
	if err != nil {
		return nil, err
	}

	// (d) stock deduction, best effort: a failure here never unwinds the
	// already-committed payment.
	s.deductInventory(order.OrderItems)

	// (e) events
	s.notifier.Publish(broadcast.EventOrderPaid, order)
	s.notifier.Publish(broadcast.EventInvoiceCreated, inv)

	return &BillResult{Order: order, Invoice: inv, PrintReceipt: printReceipt}, nil
}

// prepare loads the order with its items and runs the shared computation.
func (s *BillingService) prepare(orderID uint, discount string) (*models.Order, billTotals, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, billTotals{}, err
	}
	if order == nil {
		return nil, billTotals{}, notFoundErr("order", orderID)
	}

	totals, err := s.computeTotals(order.OrderItems, discount)
	if err != nil {
		return nil, billTotals{}, err
	}
	return order, totals, nil
}

// createInvoice allocates the next INV-%04d number from the invoice count
// read immediately before insert, and freezes the order items into the
// invoice snapshot.
func (s *BillingService) createInvoice(order *models.Order, totals billTotals, in BillInput, status models.InvoiceStatus) (*models.Invoice, error) {
	count, err := s.store.CountInvoices()
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(order.OrderItems)
	if err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		Number:        fmt.Sprintf("INV-%04d", count+1),
		OrderID:       order.ID,
		Subtotal:      utils.FormatAmount(totals.subtotal),
		Tax:           utils.FormatAmount(totals.tax),
		Discount:      utils.FormatAmount(totals.discount),
		Total:         utils.FormatAmount(totals.total),
		PaymentMode:   in.PaymentMode,
		Status:        status,
		ItemsSnapshot: string(snapshot),
	}
	if len(in.Splits) > 0 {
		splits, err := json.Marshal(in.Splits)
		if err != nil {
			return nil, err
		}
		inv.SplitPayments = string(splits)
	}

	if err := s.store.CreateInvoice(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// deductInventory subtracts recipe quantities for every sold item. Stock may
// go negative here; unlike manual wastage, sales are never blocked by the
// counter. Failures are logged per ingredient and do not stop the pass.
func (s *BillingService) deductInventory(items []models.OrderItem) {
	for _, it := range items {
		recipe, err := s.store.GetRecipeByMenuItemID(it.MenuItemID)
		if err != nil {
			utils.ErrorLogger.Printf("inventory deduction: recipe for menu item %d: %v", it.MenuItemID, err)
			continue
		}
		if recipe == nil {
			continue
		}

		ingredients, err := s.store.GetRecipeIngredients(recipe.ID)
		if err != nil {
			utils.ErrorLogger.Printf("inventory deduction: ingredients of recipe %d: %v", recipe.ID, err)
			continue
		}

		for _, ing := range ingredients {
			stock, err := s.store.GetInventoryItem(ing.InventoryItemID)
			if err != nil || stock == nil {
				utils.ErrorLogger.Printf("inventory deduction: inventory item %d: %v", ing.InventoryItemID, err)
				continue
			}

			delta := utils.MustParseAmount(ing.QuantityPerUnit) * float64(it.Quantity)
			remaining := utils.MustParseAmount(stock.Stock) - delta
			if err := s.store.UpdateInventoryQuantity(stock.ID, utils.FormatAmount(remaining)); err != nil {
				utils.ErrorLogger.Printf("inventory deduction: update item %d: %v", stock.ID, err)
				continue
			}
			if remaining < utils.MustParseAmount(stock.MinStock) {
				utils.InfoLogger.Printf("inventory item %d (%s) below minimum stock: %s %s left",
					stock.ID, stock.Name, utils.FormatAmount(remaining), stock.Unit)
			}
		}
	}
	s.notifier.Publish(broadcast.EventInventoryUpdate, nil)
}

// mirrorTableFree pushes the freed table state to the digital-menu customer
// document for channel-sourced orders. Best effort.
func (s *BillingService) mirrorTableFree(order *models.Order) {
	if s.channel == nil || order.ExternalCustomerID == "" {
		return
	}
	if err := s.channel.SetCustomerTableStatus(context.Background(), order.ExternalCustomerID, string(models.TableFree)); err != nil {
		utils.ErrorLogger.Printf("mirror free table for order %d: %v", order.ID, err)
	}
}
