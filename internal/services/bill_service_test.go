package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
)

func TestAddBillItem_RejectsInvalidLines(t *testing.T) {
	tests := []struct {
		name string
		in   BillItemInput
	}{
		{"empty description", BillItemInput{Description: "", Qty: 1, Rate: 10}},
		{"blank description", BillItemInput{Description: "   ", Qty: 1, Rate: 10}},
		{"zero qty", BillItemInput{Description: "Cable", Qty: 0, Rate: 10}},
		{"negative qty", BillItemInput{Description: "Cable", Qty: -2, Rate: 10}},
		{"zero rate", BillItemInput{Description: "Cable", Qty: 1, Rate: 0}},
		{"negative rate", BillItemInput{Description: "Cable", Qty: 1, Rate: -5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			draft := NewBillDraft()
			_, err := AddBillItem(draft, BillItemInput{Description: "Router", Qty: 1, Rate: 100})
			require.NoError(t, err)
			before := *draft
			before.Items = append([]models.BillItem(nil), draft.Items...)

			_, err = AddBillItem(draft, tc.in)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, before, *draft, "draft must be unchanged on rejection")
		})
	}
}

func TestAddBillItem_ComputesAmountAndAssignsUniqueIDs(t *testing.T) {
	draft := NewBillDraft()
	a, err := AddBillItem(draft, BillItemInput{Description: "Camera", Qty: 3, Rate: 1499.5})
	require.NoError(t, err)
	b, err := AddBillItem(draft, BillItemInput{Description: "Camera", Qty: 3, Rate: 1499.5})
	require.NoError(t, err)

	assert.Equal(t, 4498.5, a.Amount)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, draft.Items, 2)
	assert.Equal(t, 8997.0, draft.Subtotal)
}

func TestRecomputeBillTotals_ReferenceInvoice(t *testing.T) {
	draft := NewBillDraft()
	_, err := AddBillItem(draft, BillItemInput{Description: "Switch", Qty: 2, Rate: 500})
	require.NoError(t, err)
	_, err = AddBillItem(draft, BillItemInput{Description: "Rack", Qty: 1, Rate: 1000})
	require.NoError(t, err)

	assert.Equal(t, 2000.0, draft.Subtotal)
	assert.Equal(t, 180.0, draft.CGST)
	assert.Equal(t, 180.0, draft.SGST)
	assert.Equal(t, 0.0, draft.IGST)
	assert.Equal(t, 2360.0, draft.GrandTotal)
	assert.Equal(t, 0.0, draft.RoundOff)
	assert.Equal(t, "Two Thousand Three Hundred Sixty Only", draft.AmountInWords)
}

func TestRecomputeBillTotals_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		wantGrand float64
		wantRound float64
	}{
		// 0.5 * 1.18 = 0.59
		{"rounds up from .59", 0.5, 1, 0.41},
		// 12.5 * 1.18 = 14.75
		{"rounds up from .75", 12.5, 15, 0.25},
		// 10.2 * 1.18 = 12.036
		{"rounds down from .036", 10.2, 12, -0.036},
		// 25 * 1.18 = 29.5
		{"exact half goes up", 25, 30, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			draft := NewBillDraft()
			_, err := AddBillItem(draft, BillItemInput{Description: "Part", Qty: 1, Rate: tc.rate})
			require.NoError(t, err)
			assert.Equal(t, tc.wantGrand, draft.GrandTotal)
			assert.InDelta(t, tc.wantRound, draft.RoundOff, 1e-9)
			assert.InDelta(t, draft.GrandTotal, draft.Subtotal+draft.CGST+draft.SGST+draft.IGST+draft.RoundOff, 1e-9)
		})
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[string]string{
		"2.5":   "3",
		"2.49":  "2",
		"-2.5":  "-2",
		"-2.51": "-3",
		"0":     "0",
	}
	for in, want := range cases {
		got := roundHalfUp(decimal.RequireFromString(in))
		assert.Equal(t, want, got.String(), "round(%s)", in)
	}
}

func TestRecomputeBillTotals_Idempotent(t *testing.T) {
	draft := NewBillDraft()
	for _, in := range []BillItemInput{
		{Description: "A", Qty: 7, Rate: 33.33},
		{Description: "B", Qty: 1, Rate: 0.99},
		{Description: "C", Qty: 12, Rate: 145.1},
	} {
		_, err := AddBillItem(draft, in)
		require.NoError(t, err)
	}
	first := *draft
	RecomputeBillTotals(draft)
	RecomputeBillTotals(draft)
	assert.Equal(t, first, *draft)
}

func TestSetBillIGST_SwitchesTaxMode(t *testing.T) {
	draft := NewBillDraft()
	_, err := AddBillItem(draft, BillItemInput{Description: "Switch", Qty: 2, Rate: 500})
	require.NoError(t, err)

	SetBillIGST(draft, true)
	assert.True(t, draft.IsIGST)
	assert.Equal(t, 0.0, draft.CGST)
	assert.Equal(t, 0.0, draft.SGST)
	assert.Equal(t, 180.0, draft.IGST)
	assert.Equal(t, 1180.0, draft.GrandTotal)

	SetBillIGST(draft, false)
	assert.Equal(t, 90.0, draft.CGST)
	assert.Equal(t, 0.0, draft.IGST)
}

func TestRemoveBillItem(t *testing.T) {
	draft := NewBillDraft()
	a, err := AddBillItem(draft, BillItemInput{Description: "A", Qty: 1, Rate: 100})
	require.NoError(t, err)
	b, err := AddBillItem(draft, BillItemInput{Description: "B", Qty: 1, Rate: 200})
	require.NoError(t, err)

	require.NoError(t, RemoveBillItem(draft, a.ID))
	require.Len(t, draft.Items, 1)
	assert.Equal(t, b.ID, draft.Items[0].ID)
	assert.Equal(t, 200.0, draft.Subtotal)

	assert.ErrorIs(t, RemoveBillItem(draft, "nope"), ErrDraftItemNotFound)

	require.NoError(t, RemoveBillItem(draft, b.ID))
	assert.Empty(t, draft.Items)
	assert.Equal(t, 0.0, draft.Subtotal)
	assert.Equal(t, 0.0, draft.GrandTotal)
	assert.Equal(t, "Zero", draft.AmountInWords)
}

func TestGenerateBillNumber(t *testing.T) {
	no := GenerateBillNumber(fixedNow)
	assert.Regexp(t, regexp.MustCompile(`^24-03/\d{3}$`), no)
}

func TestPreviewBill_ReplaysItemsAndIgnoresAmounts(t *testing.T) {
	svc := NewBillService(newTestLedger(), fixedClock)
	draft, err := svc.PreviewBill(BillRequest{
		ClientName: "Acme",
		Items: []BillItemInput{
			{Description: "Switch", Qty: 2, Rate: 500},
			{Description: "Rack", Qty: 1, Rate: 1000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2360.0, draft.GrandTotal)
	assert.Equal(t, 1000.0, draft.Items[0].Amount)

	_, err = svc.PreviewBill(BillRequest{Items: []BillItemInput{{Description: "x", Qty: 0, Rate: 1}}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.PreviewBill(BillRequest{Date: "13/03/2024"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCommitBill_RejectsIncompleteDrafts(t *testing.T) {
	ledger := newTestLedger()
	svc := NewBillService(ledger, fixedClock)
	ctx := context.Background()

	_, err := svc.CommitBill(ctx, models.BillDraft{Items: []models.BillItem{{ID: "l1", Description: "x", Qty: 1, Rate: 1, Amount: 1}}}, "op")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CommitBill(ctx, models.BillDraft{ClientName: "Acme"}, "op")
	assert.ErrorIs(t, err, ErrValidation)

	bills, err := ledger.ListBills(ctx)
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestCommitBill_PersistsBillWithDefaults(t *testing.T) {
	ledger := newTestLedger()
	svc := NewBillService(ledger, fixedClock)
	ctx := context.Background()

	res, err := svc.CreateBill(ctx, BillRequest{
		ClientName: "Walk-in",
		PONumber:   "PO-9",
		Items:      []BillItemInput{{Description: "Cable", Qty: 1, Rate: 100}},
	}, "operator-1")
	require.NoError(t, err)

	bill := res.Bill
	assert.NotEmpty(t, bill.ID)
	assert.Regexp(t, `^24-03/\d{3}$`, bill.BillNo)
	assert.Equal(t, "2024-03-13", bill.Date)
	assert.Equal(t, "operator-1", bill.UserID)
	assert.Equal(t, "2024-03-13T15:30:00Z", bill.CreatedAt)
	assert.Equal(t, "PO-9", bill.PONumber)
	assert.Equal(t, 118.0, bill.GrandTotal)
	assert.Nil(t, res.CreatedClient, "no GSTIN means no client is created")

	stored, err := svc.GetBillByID(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, bill, *stored)

	_, err = svc.GetBillByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrBillNotFound)
}

func TestCommitBill_CreatesClientOnceForUnknownGSTIN(t *testing.T) {
	ledger := newTestLedger()
	svc := NewBillService(ledger, fixedClock)
	ctx := context.Background()
	req := BillRequest{
		ClientName:    "Acme Pvt Ltd",
		ClientGSTIN:   "27ABCDE1234F1Z5",
		ClientAddress: "Pune",
		Date:          "2024-03-10",
		Items:         []BillItemInput{{Description: "Switch", Qty: 2, Rate: 500}, {Description: "Rack", Qty: 1, Rate: 1000}},
	}

	first, err := svc.CreateBill(ctx, req, "op")
	require.NoError(t, err)
	require.NotNil(t, first.CreatedClient)
	assert.Equal(t, 2360.0, first.CreatedClient.TotalBilled)
	assert.Equal(t, "2024-03-10", first.CreatedClient.LastBillDate)
	assert.Equal(t, "27ABCDE1234F1Z5", first.CreatedClient.GSTIN)

	req.Date = "2024-03-12"
	second, err := svc.CreateBill(ctx, req, "op")
	require.NoError(t, err)
	assert.Nil(t, second.CreatedClient)

	clients, err := ledger.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, 2360.0, clients[0].TotalBilled, "the stored snapshot is not updated by later bills")
	assert.Equal(t, "2024-03-10", clients[0].LastBillDate)
}

func TestCommitBill_SkipsClientCreationForKnownClientID(t *testing.T) {
	ledger := newTestLedger()
	svc := NewBillService(ledger, fixedClock)
	ctx := context.Background()

	res, err := svc.CreateBill(ctx, BillRequest{
		ClientID:    "existing-id",
		ClientName:  "Acme",
		ClientGSTIN: "27ABCDE1234F1Z5",
		Items:       []BillItemInput{{Description: "Switch", Qty: 1, Rate: 500}},
	}, "op")
	require.NoError(t, err)
	assert.Nil(t, res.CreatedClient)

	clients, err := ledger.ListClients(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestCommitBill_StockDecrement(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		qty       int
		wantStock int
		wantSkip  string
	}{
		{"enough stock", 5, 3, 2, ""},
		{"exactly enough", 5, 5, 0, ""},
		{"insufficient stock is left alone", 5, 10, 5, SkipReasonInsufficientStock},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ledger := newTestLedger()
			seedItems(t, ledger, models.Item{ID: "i1", Description: "Camera", Stock: tc.stock, MinStock: 1})
			svc := NewBillService(ledger, fixedClock)

			res, err := svc.CreateBill(context.Background(), BillRequest{
				ClientName: "Acme",
				Items:      []BillItemInput{{Description: "Camera", Qty: tc.qty, Rate: 100}},
			}, "op")
			require.NoError(t, err)

			item, err := ledger.FindItemByID(context.Background(), "i1")
			require.NoError(t, err)
			assert.Equal(t, tc.wantStock, item.Stock)

			if tc.wantSkip == "" {
				assert.Empty(t, res.StockSkips)
			} else {
				require.Len(t, res.StockSkips, 1)
				assert.Equal(t, tc.wantSkip, res.StockSkips[0].Reason)
				assert.Equal(t, tc.stock, res.StockSkips[0].Available)
			}
		})
	}
}

func TestCommitBill_LinkedItemWinsOverDescription(t *testing.T) {
	ledger := newTestLedger()
	seedItems(t, ledger,
		models.Item{ID: "by-desc", Description: "Camera", Stock: 10},
		models.Item{ID: "linked", Description: "Camera 4MP", Stock: 10},
	)
	svc := NewBillService(ledger, fixedClock)
	ctx := context.Background()

	_, err := svc.CreateBill(ctx, BillRequest{
		ClientName: "Acme",
		Items:      []BillItemInput{{InventoryItemID: "linked", Description: "Camera", Qty: 4, Rate: 100}},
	}, "op")
	require.NoError(t, err)

	linked, err := ledger.FindItemByID(ctx, "linked")
	require.NoError(t, err)
	byDesc, err := ledger.FindItemByID(ctx, "by-desc")
	require.NoError(t, err)
	assert.Equal(t, 6, linked.Stock)
	assert.Equal(t, 10, byDesc.Stock)
}

func TestCommitBill_UnknownItemIsReportedNotFatal(t *testing.T) {
	svc := NewBillService(newTestLedger(), fixedClock)
	res, err := svc.CreateBill(context.Background(), BillRequest{
		ClientName: "Acme",
		Items:      []BillItemInput{{Description: "Installation charges", Qty: 1, Rate: 1500}},
	}, "op")
	require.NoError(t, err)
	require.Len(t, res.StockSkips, 1)
	assert.Equal(t, SkipReasonNotFound, res.StockSkips[0].Reason)
}

func TestCommitBill_RepeatedLinesDecrementCumulatively(t *testing.T) {
	ledger := newTestLedger()
	seedItems(t, ledger, models.Item{ID: "i1", Description: "Camera", Stock: 5})
	svc := NewBillService(ledger, fixedClock)

	res, err := svc.CreateBill(context.Background(), BillRequest{
		ClientName: "Acme",
		Items: []BillItemInput{
			{Description: "Camera", Qty: 3, Rate: 100},
			{Description: "Camera", Qty: 3, Rate: 100},
			{Description: "Camera", Qty: 2, Rate: 100},
		},
	}, "op")
	require.NoError(t, err)

	item, err := ledger.FindItemByID(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, 0, item.Stock)
	require.Len(t, res.StockSkips, 1)
	assert.Equal(t, 2, res.StockSkips[0].Available)
}

func TestCommitBill_AllOrNothing(t *testing.T) {
	mem := repositories.NewMemoryStore()
	seed := repositories.NewLedgerRepository(mem)
	seedItems(t, seed, models.Item{ID: "i1", Description: "Camera", Stock: 5})

	svc := NewBillService(repositories.NewLedgerRepository(brokenStore{KVStore: mem}), fixedClock)
	_, err := svc.CreateBill(context.Background(), BillRequest{
		ClientName:  "Acme",
		ClientGSTIN: "27ABCDE1234F1Z5",
		Items:       []BillItemInput{{Description: "Camera", Qty: 3, Rate: 100}},
	}, "op")
	require.Error(t, err)

	ctx := context.Background()
	bills, err := seed.ListBills(ctx)
	require.NoError(t, err)
	assert.Empty(t, bills)
	clients, err := seed.ListClients(ctx)
	require.NoError(t, err)
	assert.Empty(t, clients)
	item, err := seed.FindItemByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, 5, item.Stock)
}

func TestCommitBill_RecomputesTotalsFromLines(t *testing.T) {
	ledger := newTestLedger()
	svc := NewBillService(ledger, fixedClock)
	ctx := context.Background()

	res, err := svc.CommitBill(ctx, models.BillDraft{
		ClientName:    "Acme",
		Items:         []models.BillItem{{ID: "l1", Description: "Switch", Qty: 2, Rate: 500, Amount: 1}},
		Subtotal:      0,
		GrandTotal:    0,
		AmountInWords: "Zero",
	}, "op")
	require.NoError(t, err)

	bill := res.Bill
	assert.Equal(t, 1000.0, bill.Items[0].Amount)
	assert.Equal(t, 1000.0, bill.Subtotal)
	assert.Equal(t, 90.0, bill.CGST)
	assert.Equal(t, 90.0, bill.SGST)
	assert.Equal(t, 1180.0, bill.GrandTotal)
	assert.Equal(t, "One Thousand One Hundred Eighty Only", bill.AmountInWords)

	stored, err := ledger.FindBillByID(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, 1180.0, stored.GrandTotal)
}

func TestCommitBill_RejectsInvalidDraftLines(t *testing.T) {
	ledger := newTestLedger()
	svc := NewBillService(ledger, fixedClock)

	_, err := svc.CommitBill(context.Background(), models.BillDraft{
		ClientName: "Acme",
		Items:      []models.BillItem{{ID: "l1", Description: "Switch", Qty: 0, Rate: 500, Amount: 500}},
	}, "op")
	assert.ErrorIs(t, err, ErrValidation)

	bills, err := ledger.ListBills(context.Background())
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestCommitBill_RetriesAfterConcurrentCommit(t *testing.T) {
	ctx := context.Background()
	mem := repositories.NewMemoryStore()
	other := repositories.NewLedgerRepository(mem)
	seedItems(t, other, models.Item{ID: "i1", Description: "Camera", Stock: 10})

	racing := &racingStore{KVStore: mem, interleave: func() {
		require.NoError(t, other.UpsertBill(ctx, models.Bill{ID: "other-bill"}))
		require.NoError(t, other.UpsertItem(ctx, models.Item{ID: "i1", Description: "Camera", Stock: 9}))
	}}
	svc := NewBillService(repositories.NewLedgerRepository(racing), fixedClock)

	res, err := svc.CreateBill(ctx, BillRequest{
		ClientName: "Acme",
		Items:      []BillItemInput{{Description: "Camera", Qty: 3, Rate: 100}},
	}, "op")
	require.NoError(t, err)

	bills, err := other.ListBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, "other-bill", bills[0].ID)
	assert.Equal(t, res.Bill.ID, bills[1].ID)

	item, err := other.FindItemByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, 6, item.Stock)
}

func TestGetBills_NewestFirst(t *testing.T) {
	ledger := newTestLedger()
	seedBills(t, ledger, models.Bill{ID: "b1"}, models.Bill{ID: "b2"}, models.Bill{ID: "b3"})
	bills, err := NewBillService(ledger, fixedClock).GetBills(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b3", bills[0].ID)
	assert.Equal(t, "b1", bills[2].ID)
}
