package ledger

import "github.com/go-chi/chi/v5"

// MountBorrowRoutes registers borrow endpoints.
func (h *Handler) MountBorrowRoutes(r chi.Router) {
	r.Post("/borrow", h.Borrow)
}

// MountLendRoutes registers lend endpoints.
func (h *Handler) MountLendRoutes(r chi.Router) {
	r.Post("/lend_transaction", h.Lend)
}

// MountTransferRoutes registers transfer endpoints.
func (h *Handler) MountTransferRoutes(r chi.Router) {
	r.Post("/transfer_Transaction", h.Transfer)
}

// MountReturnRoutes registers return endpoints.
func (h *Handler) MountReturnRoutes(r chi.Router) {
	r.Post("/return", h.Return)
}
