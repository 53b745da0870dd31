package service

import (
	"errors"
	"testing"

	"github.com/bitfantasy/nimo-inventory/internal/entity"
	"github.com/bitfantasy/nimo-inventory/internal/repository"
	"github.com/bitfantasy/nimo-inventory/internal/testutil"
	"gorm.io/gorm"
)

type poTestEnv struct {
	db        *gorm.DB
	svc       *PurchaseOrderService
	repos     *repository.Repositories
	companyID string
	userID    string
	productID string
}

func setupPOTest(t *testing.T) *poTestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewPurchaseOrderService(repos.PurchaseOrder, repos.Inventory, db)

	company := testutil.SeedCompany(t, db, "Acme Tools")
	user := testutil.SeedUser(t, db, "jdoe", "John Doe")
	product := testutil.SeedProduct(t, db, company.ID, "SKU-001", "Steel Bolt", 5.0)

	return &poTestEnv{
		db:        db,
		svc:       svc,
		repos:     repos,
		companyID: company.ID,
		userID:    user.ID,
		productID: product.ID,
	}
}

func TestOrderTotal(t *testing.T) {
	if got := OrderTotal(nil); got != 0 {
		t.Fatalf("expected 0 for empty items, got %v", got)
	}
	items := []entity.PurchaseOrderItem{
		{Subtotal: 50.0},
		{Subtotal: 12.5},
		{},
	}
	if got := OrderTotal(items); got != 62.5 {
		t.Fatalf("expected 62.5, got %v", got)
	}
}

func TestCreatePurchaseOrder(t *testing.T) {
	env := setupPOTest(t)

	po, err := env.svc.Create(CreatePORequest{
		CompanyID: env.companyID,
		Supplier:  "Bolt Supply Co",
		OrderDate: "2025-06-01",
		Items: []POItemRequest{
			{ProductID: env.productID, Quantity: 10, UnitPrice: 5.0},
		},
	}, env.userID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if po.Status != entity.POStatusPending {
		t.Fatalf("expected status PENDING, got %s", po.Status)
	}
	if po.TotalAmount != 50.0 {
		t.Fatalf("expected total 50.0, got %v", po.TotalAmount)
	}
	if len(po.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(po.Items))
	}
	item := po.Items[0]
	if item.PurchaseOrderID != po.ID {
		t.Fatalf("item not stamped with order id")
	}
	if item.ReceivedQuantity != 0 {
		t.Fatalf("expected received quantity 0, got %d", item.ReceivedQuantity)
	}
	if item.Subtotal != 50.0 {
		t.Fatalf("expected subtotal 50.0, got %v", item.Subtotal)
	}
	if po.PONumber == "" {
		t.Fatalf("expected generated PO number")
	}
}

func TestGetPurchaseOrderNotFound(t *testing.T) {
	env := setupPOTest(t)

	_, err := env.svc.GetByID("b2c7f6f2-0000-0000-0000-000000000000")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestAddItemToMissingOrder(t *testing.T) {
	env := setupPOTest(t)

	_, err := env.svc.AddItem("b2c7f6f2-0000-0000-0000-000000000000", POItemRequest{
		ProductID: env.productID, Quantity: 2, UnitPrice: 3.0,
	})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	var count int64
	env.db.Model(&entity.PurchaseOrderItem{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no items persisted, got %d", count)
	}
}

func TestAddItemRecomputesTotal(t *testing.T) {
	env := setupPOTest(t)

	po, err := env.svc.Create(CreatePORequest{
		CompanyID: env.companyID,
		Items: []POItemRequest{
			{ProductID: env.productID, Quantity: 10, UnitPrice: 5.0},
		},
	}, env.userID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	item, err := env.svc.AddItem(po.ID, POItemRequest{
		ProductID: env.productID, Quantity: 4, UnitPrice: 2.5,
	})
	if err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if item.Subtotal != 10.0 {
		t.Fatalf("expected subtotal 10.0, got %v", item.Subtotal)
	}

	reloaded, err := env.svc.GetByID(po.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.TotalAmount != 60.0 {
		t.Fatalf("expected total 60.0, got %v", reloaded.TotalAmount)
	}
	if got := OrderTotal(reloaded.Items); got != reloaded.TotalAmount {
		t.Fatalf("total %v does not match sum of subtotals %v", reloaded.TotalAmount, got)
	}
}

func TestUpdateItemIdempotent(t *testing.T) {
	env := setupPOTest(t)

	po, _ := env.svc.Create(CreatePORequest{
		CompanyID: env.companyID,
		Items: []POItemRequest{
			{ProductID: env.productID, Quantity: 10, UnitPrice: 5.0},
		},
	}, env.userID)
	itemID := po.Items[0].ID

	for i := 0; i < 2; i++ {
		item, err := env.svc.UpdateItem(itemID, UpdateItemRequest{Quantity: 3, UnitPrice: 7.0})
		if err != nil {
			t.Fatalf("update item failed: %v", err)
		}
		if item.Subtotal != 21.0 {
			t.Fatalf("expected subtotal 21.0, got %v", item.Subtotal)
		}
		reloaded, _ := env.svc.GetByID(po.ID)
		if reloaded.TotalAmount != 21.0 {
			t.Fatalf("expected total 21.0, got %v", reloaded.TotalAmount)
		}
	}
}

func TestUpdateMissingItem(t *testing.T) {
	env := setupPOTest(t)

	_, err := env.svc.UpdateItem("b2c7f6f2-0000-0000-0000-000000000000", UpdateItemRequest{Quantity: 1, UnitPrice: 1.0})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestRemoveItemRecomputesTotal(t *testing.T) {
	env := setupPOTest(t)

	po, _ := env.svc.Create(CreatePORequest{
		CompanyID: env.companyID,
		Items: []POItemRequest{
			{ProductID: env.productID, Quantity: 10, UnitPrice: 5.0},
			{ProductID: env.productID, Quantity: 2, UnitPrice: 8.0},
		},
	}, env.userID)
	if po.TotalAmount != 66.0 {
		t.Fatalf("expected total 66.0, got %v", po.TotalAmount)
	}

	if err := env.svc.RemoveItem(po.Items[1].ID); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}

	reloaded, _ := env.svc.GetByID(po.ID)
	if len(reloaded.Items) != 1 {
		t.Fatalf("expected 1 item after removal, got %d", len(reloaded.Items))
	}
	if reloaded.TotalAmount != reloaded.Items[0].Subtotal {
		t.Fatalf("expected total %v, got %v", reloaded.Items[0].Subtotal, reloaded.TotalAmount)
	}
}

func TestUpdateReplacesItemsWholesale(t *testing.T) {
	env := setupPOTest(t)

	po, _ := env.svc.Create(CreatePORequest{
		CompanyID: env.companyID,
		Supplier:  "Bolt Supply Co",
		Items: []POItemRequest{
			{ProductID: env.productID, Quantity: 10, UnitPrice: 5.0},
			{ProductID: env.productID, Quantity: 2, UnitPrice: 8.0},
		},
	}, env.userID)

	updated, err := env.svc.Update(po.ID, UpdatePORequest{
		PONumber: po.PONumber,
		Supplier: "New Supply Co",
		Notes:    "replaced lines",
		Items: []POItemRequest{
			{ProductID: env.productID, Quantity: 3, UnitPrice: 4.0},
		},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Supplier != "New Supply Co" {
		t.Fatalf("expected supplier overwritten, got %s", updated.Supplier)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("expected wholesale replacement to 1 item, got %d", len(updated.Items))
	}
	if updated.TotalAmount != 12.0 {
		t.Fatalf("expected total 12.0, got %v", updated.TotalAmount)
	}
}

func TestUpdateCancelsOrder(t *testing.T) {
	env := setupPOTest(t)

	po, _ := env.svc.Create(CreatePORequest{CompanyID: env.companyID}, env.userID)

	updated, err := env.svc.Update(po.ID, UpdatePORequest{Status: entity.POStatusCancelled})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != entity.POStatusCancelled {
		t.Fatalf("expected status CANCELLED, got %s", updated.Status)
	}
}

func TestUpdateMissingOrder(t *testing.T) {
	env := setupPOTest(t)

	_, err := env.svc.Update("b2c7f6f2-0000-0000-0000-000000000000", UpdatePORequest{Supplier: "x"})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestDeleteOnlyPendingOrders(t *testing.T) {
	env := setupPOTest(t)

	po, _ := env.svc.Create(CreatePORequest{
		CompanyID: env.companyID,
		Items: []POItemRequest{
			{ProductID: env.productID, Quantity: 5, UnitPrice: 2.0},
		},
	}, env.userID)

	// 收满后订单不可删
	if _, err := env.svc.ReceiveInventory(po.ID, []ReceiptItem{{ItemID: po.Items[0].ID, Quantity: 5}}); err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	err := env.svc.Delete(po.ID)
	if !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("expected ErrOrderNotPending, got %v", err)
	}
	if _, err := env.svc.GetByID(po.ID); err != nil {
		t.Fatalf("order should survive refused delete: %v", err)
	}

	// PENDING 订单连同明细一起删除
	pending, _ := env.svc.Create(CreatePORequest{
		CompanyID: env.companyID,
		Items: []POItemRequest{
			{ProductID: env.productID, Quantity: 1, UnitPrice: 1.0},
		},
	}, env.userID)
	if err := env.svc.Delete(pending.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := env.svc.GetByID(pending.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order gone, got %v", err)
	}
	var count int64
	env.db.Model(&entity.PurchaseOrderItem{}).Where("purchase_order_id = ?", pending.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected items deleted with order, got %d", count)
	}
}

func TestReceiveInventoryPartialThenFull(t *testing.T) {
	env := setupPOTest(t)

	po, _ := env.svc.Create(CreatePORequest{
		CompanyID: env.companyID,
		Items: []POItemRequest{
			{ProductID: env.productID, Quantity: 10, UnitPrice: 5.0},
		},
	}, env.userID)
	itemID := po.Items[0].ID

	// 部分收货：状态保持 PENDING，库存记录按收货量创建
	after, err := env.svc.ReceiveInventory(po.ID, []ReceiptItem{{ItemID: itemID, Quantity: 4}})
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if after.Status != entity.POStatusPending {
		t.Fatalf("expected PENDING after partial receipt, got %s", after.Status)
	}
	if after.Items[0].ReceivedQuantity != 4 {
		t.Fatalf("expected received 4, got %d", after.Items[0].ReceivedQuantity)
	}
	inv, err := env.repos.Inventory.GetByProduct(env.productID)
	if err != nil {
		t.Fatalf("expected inventory created: %v", err)
	}
	if inv.Quantity != 4 {
		t.Fatalf("expected inventory 4, got %d", inv.Quantity)
	}

	// 收满：状态转 RECEIVED，库存累加
	after, err = env.svc.ReceiveInventory(po.ID, []ReceiptItem{{ItemID: itemID, Quantity: 6}})
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if after.Status != entity.POStatusReceived {
		t.Fatalf("expected RECEIVED after full receipt, got %s", after.Status)
	}
	if after.Items[0].ReceivedQuantity != 10 {
		t.Fatalf("expected received 10, got %d", after.Items[0].ReceivedQuantity)
	}
	inv, _ = env.repos.Inventory.GetByProduct(env.productID)
	if inv.Quantity != 10 {
		t.Fatalf("expected inventory 10, got %d", inv.Quantity)
	}
}

func TestReceiveInventoryIncrementsExistingRecord(t *testing.T) {
	env := setupPOTest(t)

	seed := &entity.Inventory{ProductID: env.productID, Quantity: 3}
	if err := env.repos.Inventory.Create(seed); err != nil {
		t.Fatalf("seed inventory failed: %v", err)
	}

	po, _ := env.svc.Create(CreatePORequest{
		CompanyID: env.companyID,
		Items: []POItemRequest{
			{ProductID: env.productID, Quantity: 10, UnitPrice: 5.0},
		},
	}, env.userID)

	if _, err := env.svc.ReceiveInventory(po.ID, []ReceiptItem{{ItemID: po.Items[0].ID, Quantity: 10}}); err != nil {
		t.Fatalf("receive failed: %v", err)
	}

	inv, _ := env.repos.Inventory.GetByProduct(env.productID)
	if inv.Quantity != 13 {
		t.Fatalf("expected inventory 13, got %d", inv.Quantity)
	}
}

func TestReceiveInventorySkipsUnknownItems(t *testing.T) {
	env := setupPOTest(t)

	po, _ := env.svc.Create(CreatePORequest{
		CompanyID: env.companyID,
		Items: []POItemRequest{
			{ProductID: env.productID, Quantity: 2, UnitPrice: 5.0},
		},
	}, env.userID)

	after, err := env.svc.ReceiveInventory(po.ID, []ReceiptItem{
		{ItemID: "b2c7f6f2-0000-0000-0000-000000000000", Quantity: 99},
		{ItemID: po.Items[0].ID, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("receive should skip unknown items: %v", err)
	}
	if after.Items[0].ReceivedQuantity != 2 {
		t.Fatalf("expected received 2, got %d", after.Items[0].ReceivedQuantity)
	}
	if after.Status != entity.POStatusReceived {
		t.Fatalf("expected RECEIVED, got %s", after.Status)
	}
}

func TestReceiveInventoryMissingOrder(t *testing.T) {
	env := setupPOTest(t)

	_, err := env.svc.ReceiveInventory("b2c7f6f2-0000-0000-0000-000000000000", []ReceiptItem{
		{ItemID: "whatever", Quantity: 1},
	})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
