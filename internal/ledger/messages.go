package ledger

import (
	"fmt"
	"strings"

	"github.com/adts-project/adts/internal/notify"
)

// itemDetailBlock renders the shared "Transaction Details" section of a
// notification message.
func itemDetailBlock(detail ItemDetail, quantity int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Item Name: %s\n", detail.ItemName)
	fmt.Fprintf(&b, "Description: %s\n", detail.Description)
	fmt.Fprintf(&b, "Quantity: %d\n", quantity)
	fmt.Fprintf(&b, "PAR No.: %s\n", detail.ParNo)
	fmt.Fprintf(&b, "MR No.: %s\n", detail.MrNo)
	fmt.Fprintf(&b, "PIS No.: %s\n", detail.PisNo)
	fmt.Fprintf(&b, "Property No.: %s\n", detail.PropNo)
	fmt.Fprintf(&b, "Serial No.: %s\n", detail.SerialNo)
	fmt.Fprintf(&b, "Unit Value: %.2f\n", detail.UnitValue)
	fmt.Fprintf(&b, "Total Value: %.2f", detail.TotalValue)
	return b.String()
}

type recipientMessage struct {
	empID   int64
	message string
}

func borrowMessages(adminEmpID int64, req BorrowRequest, holding Holding, borrowerName, ownerName string) []recipientMessage {
	return []recipientMessage{
		{adminEmpID, fmt.Sprintf("Subject: Borrowing Item Request\nFrom: %s\n\nDear Admin,\n\n%s has requested to borrow %d x %s from %s.",
			borrowerName, borrowerName, req.Quantity, holding.ItemName, ownerName)},
		{req.OwnerEmpID, fmt.Sprintf("Subject: Borrowing Item Request\nFrom: %s\n\nDear %s,\n\n%s has requested to borrow %d x %s from you.\n\nPlease review the request and proceed accordingly.",
			borrowerName, ownerName, borrowerName, req.Quantity, holding.ItemName)},
		{req.BorrowerEmpID, fmt.Sprintf("Borrowing Request Submitted\nDear %s,\n\nYour request to borrow %s (quantity %d) has been successfully submitted.\n\nYou will be notified once the admin reviews your request.",
			borrowerName, holding.ItemName, req.Quantity)},
	}
}

func lendMessages(adminEmpID int64, req LendRequest, detail ItemDetail, lenderName, borrowerName string) []recipientMessage {
	block := itemDetailBlock(detail, req.Quantity)
	return []recipientMessage{
		{adminEmpID, fmt.Sprintf("Subject: Lending Item Request\nFrom: %s\n\nDear Admin,\n\n%s has initiated a lending transaction for Mr./Mrs. %s.\n\nTransaction Details:\n%s",
			lenderName, lenderName, borrowerName, block)},
		{req.BorrowerID, fmt.Sprintf("Subject: Request to Lend Item\nFrom: %s\n\nDear %s,\n\nMr./Mrs. %s has requested to lend an item to you.\n\nTransaction Details:\n%s\n\nPlease review the details and proceed accordingly.",
			lenderName, borrowerName, lenderName, block)},
		{req.EmpID, fmt.Sprintf("Lending Request Submitted\nDear %s,\n\nYour request to lend this item has been successfully submitted.\n\nItem Details:\n%s\n\nYou will be notified once the admin reviews your request.",
			lenderName, block)},
	}
}

func transferMessages(adminEmpID int64, req TransferRequest, detail ItemDetail, senderName, receiverName string) []recipientMessage {
	block := itemDetailBlock(detail, req.Quantity)
	return []recipientMessage{
		{adminEmpID, fmt.Sprintf("Subject: Item Transfer Request\nFrom: %s\n\nDear Admin,\n\n%s has initiated a transfer transaction to Mr./Mrs. %s.\n\nTransaction Details:\n%s",
			senderName, senderName, receiverName, block)},
		{req.ReceiverID, fmt.Sprintf("Subject: Item Transfer Notice\nFrom: %s\n\nDear %s,\n\nMr./Mrs. %s has transferred an item to you.\n\nTransaction Details:\n%s\n\nPlease confirm receipt of the item.",
			senderName, receiverName, senderName, block)},
		{req.EmpID, fmt.Sprintf("Transfer Request Submitted\nDear %s,\n\nYour request to transfer this item has been successfully submitted.\n\nItem Details:\n%s\n\nYou will be notified once the receiver acknowledges the transfer.",
			senderName, block)},
	}
}

func returnMessages(adminEmpID int64, req ReturnRequest, tx Transaction, itemName, borrowerName, ownerName string) []recipientMessage {
	return []recipientMessage{
		{adminEmpID, fmt.Sprintf("Subject: Item Return Request\nFrom: %s\n\nDear Admin,\n\n%s has requested to return %d x %s to %s.",
			borrowerName, borrowerName, req.Quantity, itemName, ownerName)},
		{tx.OwnerEmpID, fmt.Sprintf("Subject: Item Return Request\nFrom: %s\n\nDear %s,\n\n%s has requested to return %d x %s.\n\nPlease confirm receipt of the item.",
			borrowerName, ownerName, borrowerName, req.Quantity, itemName)},
		{req.BorrowerEmpID, fmt.Sprintf("Return Request Submitted\nDear %s,\n\nYour request to return %s (quantity %d) has been successfully submitted.\n\nYou will be notified once the return is acknowledged.",
			borrowerName, itemName, req.Quantity)},
	}
}

func buildNotifications(transactionID, itemID, quantity int64, kind notify.Kind, messages []recipientMessage) []notify.Notification {
	notifications := make([]notify.Notification, 0, len(messages))
	for _, m := range messages {
		notifications = append(notifications, notify.Notification{
			RecipientEmpID: m.empID,
			TransactionID:  transactionID,
			Kind:           kind,
			ItemID:         itemID,
			Quantity:       quantity,
			RequestStatus:  int(StatusPending),
			Message:        m.message,
		})
	}
	return notifications
}
