package domain

import "testing"

func TestPaginate(t *testing.T) {
	payments := make([]Payment, 23)
	for i := range payments {
		payments[i].PaymentID = string(rune('a' + i))
	}

	tests := []struct {
		page, size   int
		wantPage     int
		wantLen      int
		wantFirstID  string
		wantNumPages int
	}{
		{1, 10, 1, 10, "a", 3},
		{3, 10, 3, 3, "u", 3},
		{0, 10, 1, 10, "a", 3},
		{9, 10, 3, 3, "u", 3},
		{1, 0, 1, 10, "a", 3},
	}
	for _, tt := range tests {
		got := Paginate(payments, tt.page, tt.size)
		if got.Pagination.Page != tt.wantPage || len(got.Items) != tt.wantLen ||
			got.Items[0].PaymentID != tt.wantFirstID || got.Pagination.TotalPages != tt.wantNumPages {
			t.Errorf("Paginate(page=%d,size=%d) = %+v", tt.page, tt.size, got.Pagination)
		}
	}

	empty := Paginate(nil, 2, 10)
	if empty.Pagination.Page != 1 || empty.Pagination.TotalPages != 1 || len(empty.Items) != 0 {
		t.Errorf("empty page = %+v", empty)
	}
}

func TestWalletProjection(t *testing.T) {
	r := PaymentReport{
		TotalPayments:     1,
		TotalCoachEarning: 620,
		Payments: []Payment{{
			PaymentID:    "p1",
			CoachEarning: 620,
			Booking: Booking{
				Service: Service{Title: "Clarity Health Audit"},
				User:    PartyRef{FirstName: "Wilamson"},
			},
		}},
	}
	w := r.Wallet()
	want := WalletRow{ID: "p1", ServiceName: "Clarity Health Audit", ClientName: "Wilamson", Revenue: 620}
	if len(w.Rows) != 1 || w.Rows[0] != want {
		t.Errorf("wallet rows = %+v", w.Rows)
	}
}
