package lending

import (
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
)

const (
	// RenewalWindowDays bounds how far ahead a renewal may push the due date.
	RenewalWindowDays = 28
	// SuggestedRenewalDays is the default offered to librarians, not a limit.
	SuggestedRenewalDays = 21
)

const (
	msgRenewalInPast     = "Invalid date - renewal in past"
	msgRenewalTooFar     = "Invalid date - renewal more than 4 weeks ahead"
	msgDueInPast         = "Invalid date - due date in past"
	msgDueTooFar         = "Invalid date - due date more than 4 weeks ahead"
	msgRenewalNotOnLoan  = "Only copies on loan can be renewed."
	msgAlreadyOnLoan     = "This copy is already on loan."
	msgReturnNotOnLoan   = "Only copies on loan can be returned."
	msgUseCheckout       = "Use checkout to put a copy on loan."
	msgBorrowerRequired  = "Copies on loan must have a borrower."
	msgDueBackRequired   = "Copies on loan must have a due date."
	msgBorrowerNotOnLoan = "Only copies on loan can have a borrower."
	msgDueBackNotOnLoan  = "Only copies on loan can have a due date."
	msgInvalidStatus     = "Invalid status."
)

// SuggestedRenewalDate is the renewal date proposed by default.
func SuggestedRenewalDate(today models.Date) models.Date {
	return today.AddDays(SuggestedRenewalDays)
}

// Checkout lends inst to a borrower until dueBack. The returned copy is new;
// inst is left untouched.
func Checkout(inst models.BookInstance, borrowerID int, dueBack models.Date) (models.BookInstance, error) {
	if inst.Status == models.StatusOnLoan {
		return inst, errcodes.FieldError("status", msgAlreadyOnLoan)
	}

	out := inst
	out.Status = models.StatusOnLoan
	out.BorrowerID = &borrowerID
	out.DueBack = &dueBack
	return out, nil
}

// Return puts a loaned copy back on the shelf.
func Return(inst models.BookInstance) (models.BookInstance, error) {
	if inst.Status != models.StatusOnLoan {
		return inst, errcodes.FieldError("status", msgReturnNotOnLoan)
	}
	return offLoan(inst, models.StatusAvailable), nil
}

// Relabel moves a copy to any status other than on loan. Leaving a loan
// clears the borrower and due date.
func Relabel(inst models.BookInstance, status models.InstanceStatus) (models.BookInstance, error) {
	if !status.Valid() {
		return inst, errcodes.FieldError("status", msgInvalidStatus)
	}
	if status == models.StatusOnLoan {
		if inst.Status == models.StatusOnLoan {
			return inst, nil
		}
		return inst, errcodes.FieldError("status", msgUseCheckout)
	}
	return offLoan(inst, status), nil
}

// Renew moves the due date of a loaned copy to candidate, which must fall
// between today and four weeks from today inclusive.
func Renew(inst models.BookInstance, candidate, today models.Date) (models.BookInstance, error) {
	if inst.Status != models.StatusOnLoan {
		return inst, errcodes.FieldError("renewal_date", msgRenewalNotOnLoan)
	}
	if err := ValidateRenewalDate(candidate, today); err != nil {
		return inst, err
	}

	out := inst
	out.DueBack = &candidate
	return out, nil
}

// ValidateRenewalDate checks candidate against the renewal window.
func ValidateRenewalDate(candidate, today models.Date) error {
	return checkWindow(candidate, today, "renewal_date", msgRenewalInPast, msgRenewalTooFar)
}

// ValidateDueDate applies the same window to the due date of a new loan.
func ValidateDueDate(dueBack, today models.Date) error {
	return checkWindow(dueBack, today, "due_back", msgDueInPast, msgDueTooFar)
}

func checkWindow(candidate, today models.Date, field, pastMsg, farMsg string) error {
	if candidate.Before(today) {
		return errcodes.FieldError(field, pastMsg)
	}
	if candidate.After(today.AddDays(RenewalWindowDays)) {
		return errcodes.FieldError(field, farMsg)
	}
	return nil
}

// Validate checks that a copy's borrower and due date agree with its status.
func Validate(inst models.BookInstance) error {
	fe := errcodes.FieldErrors{}
	if !inst.Status.Valid() {
		fe.Add("status", msgInvalidStatus)
		return fe
	}

	if inst.Status == models.StatusOnLoan {
		if inst.BorrowerID == nil {
			fe.Add("borrower", msgBorrowerRequired)
		}
		if inst.DueBack == nil {
			fe.Add("due_back", msgDueBackRequired)
		}
	} else {
		if inst.BorrowerID != nil {
			fe.Add("borrower", msgBorrowerNotOnLoan)
		}
		if inst.DueBack != nil {
			fe.Add("due_back", msgDueBackNotOnLoan)
		}
	}
	return fe.OrNil()
}

func offLoan(inst models.BookInstance, status models.InstanceStatus) models.BookInstance {
	out := inst
	out.Status = status
	out.BorrowerID = nil
	out.DueBack = nil
	return out
}
