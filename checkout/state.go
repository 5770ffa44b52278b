package checkout

import "sort"

type State string

const (
	StateEditing           State = "editing"
	StateValidating        State = "validating"
	StateDiscountPending   State = "discount_pending"
	StateSubmitting        State = "submitting"
	StateCODDone           State = "cod_done"
	StateRedirecting       State = "redirecting"
	StateBankInstructions  State = "bank_instructions"
	StateFailed            State = "failed"
	StatePaid              State = "paid"
	StatePaymentFailed     State = "payment_failed"
	StateExpired           State = "expired"
	StateTransferConfirmed State = "transfer_confirmed"
)

var transitions = map[State][]State{
	StateEditing:          {StateValidating},
	StateValidating:       {StateEditing, StateDiscountPending, StateSubmitting, StateFailed},
	StateDiscountPending:  {StateSubmitting, StateFailed},
	StateSubmitting:       {StateCODDone, StateRedirecting, StateBankInstructions, StateFailed},
	StateFailed:           {StateEditing},
	StateCODDone:          {StatePaid},
	StateRedirecting:      {StatePaid, StatePaymentFailed, StateExpired},
	StatePaymentFailed:    {StatePaid},
	StateExpired:          {StatePaid, StatePaymentFailed},
	StateBankInstructions: {StateTransferConfirmed},
}

func CanTransitionTo(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SourcesOf lists the states from which `to` is reachable, as stored in the ledger.
func SourcesOf(to State) []string {
	var out []string
	for from, targets := range transitions {
		for _, s := range targets {
			if s == to {
				out = append(out, string(from))
			}
		}
	}
	sort.Strings(out)
	return out
}

func (s State) IsTerminal() bool {
	switch s {
	case StateCODDone, StateRedirecting, StateBankInstructions, StateFailed:
		return true
	}
	return false
}

func (s State) String() string {
	return string(s)
}
