// Package payment builds the transfer instructions handed to a debtor when they
// request to pay a debt.
package payment

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mmynk/splitfair/internal/models"
)

const (
	qrBaseURL  = "https://img.vietqr.io/image"
	qrTemplate = "compact2"

	// Bank transfer memos are short; keep ours well inside the limit.
	maxContentLen = 25
)

// Instruction tells the debtor where and how much to transfer.
// Bank fields and QRURL are empty when the creditor has no bank account on file.
type Instruction struct {
	DebtID      string
	BankCode    string
	AccountNo   string
	AccountName string
	Amount      int64
	Content     string
	QRURL       string
}

// HasBank reports whether the instruction carries routing info.
func (i Instruction) HasBank() bool {
	return i.BankCode != "" && i.AccountNo != ""
}

// NewInstruction builds the instruction for paying debt to creditor.
func NewInstruction(debt models.Debt, creditor models.Member) Instruction {
	inst := Instruction{
		DebtID:  debt.ID,
		Amount:  debt.Amount,
		Content: Content(debt),
	}
	if !creditor.Bank.Complete() {
		return inst
	}

	inst.BankCode = creditor.Bank.BankCode
	inst.AccountNo = creditor.Bank.AccountNo
	inst.AccountName = strings.ToUpper(creditor.Bank.AccountName)
	inst.QRURL = qrURL(inst)
	return inst
}

// Content is the transfer memo identifying the debt.
func Content(debt models.Debt) string {
	id := strings.ReplaceAll(debt.ID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	content := fmt.Sprintf("SPLITFAIR %s", strings.ToUpper(id))
	if len(content) > maxContentLen {
		content = content[:maxContentLen]
	}
	return content
}

func qrURL(inst Instruction) string {
	q := url.Values{}
	q.Set("amount", fmt.Sprintf("%d", inst.Amount))
	q.Set("addInfo", inst.Content)
	q.Set("accountName", inst.AccountName)

	return fmt.Sprintf("%s/%s-%s-%s.png?%s",
		qrBaseURL,
		url.PathEscape(inst.BankCode),
		url.PathEscape(inst.AccountNo),
		qrTemplate,
		q.Encode(),
	)
}
