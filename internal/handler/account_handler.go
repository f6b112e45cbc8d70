package handler

import (
	"net/http"
	"time"

	"bank-ledger/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Amounts travel as text, the same way a user types them into the form.
type CreateAccountRequest struct {
	HolderName     string `json:"holder_name"`
	InitialDeposit string `json:"initial_deposit"`
}

type AmountRequest struct {
	Amount string `json:"amount"`
}

type AccountResponse struct {
	AccountID  string `json:"account_id"`
	HolderName string `json:"holder_name"`
	Balance    string `json:"balance"`
	Display    string `json:"balance_display"`
	Message    string `json:"message"`
}

type BalanceResponse struct {
	HolderName string `json:"holder_name"`
	Balance    string `json:"balance"`
	Display    string `json:"balance_display"`
}

type EntryResponse struct {
	Sequence     int    `json:"sequence"`
	Timestamp    string `json:"timestamp"`
	Kind         string `json:"kind"`
	Amount       string `json:"amount"`
	Outcome      string `json:"outcome"`
	BalanceAfter string `json:"balance_after"`
	Description  string `json:"description"`
}

type OperationResponse struct {
	Accepted       bool          `json:"accepted"`
	Amount         string        `json:"amount"`
	Balance        string        `json:"balance"`
	BalanceDisplay string        `json:"balance_display"`
	Message        string        `json:"message"`
	Entry          EntryResponse `json:"entry"`
}

type HistoryResponse struct {
	HolderName string          `json:"holder_name"`
	Entries    []EntryResponse `json:"entries"`
}

type ResetResponse struct {
	Discarded bool   `json:"discarded"`
	Message   string `json:"message"`
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}

	account, err := h.accountService.CreateAccount(req.HolderName, req.InitialDeposit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AccountResponse{
		AccountID:  account.AccountID.String(),
		HolderName: account.HolderName,
		Balance:    account.Balance.StringFixed(2),
		Display:    account.Display,
		Message:    account.Message,
	})
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}

	result, err := h.accountService.Deposit(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOperationResponse(result))
}

// Withdraw answers 200 for both outcomes; a rejection is carried in the body.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, appErr)
		return
	}

	result, err := h.accountService.Withdraw(req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOperationResponse(result))
}

func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.accountService.Balance()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceResponse{
		HolderName: balance.HolderName,
		Balance:    balance.Balance.StringFixed(2),
		Display:    balance.Display,
	})
}

func (h *AccountHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.accountService.History()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := HistoryResponse{
		HolderName: history.HolderName,
		Entries:    make([]EntryResponse, 0, len(history.Entries)),
	}
	for _, e := range history.Entries {
		response.Entries = append(response.Entries, toEntryResponse(e))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *AccountHandler) Reset(w http.ResponseWriter, r *http.Request) {
	discarded := h.accountService.Reset()

	message := "Welcome! Create an account to begin."
	writeJSON(w, http.StatusOK, ResetResponse{Discarded: discarded, Message: message})
}

func toOperationResponse(res *service.OperationResult) OperationResponse {
	return OperationResponse{
		Accepted:       res.Accepted,
		Amount:         res.Amount.StringFixed(2),
		Balance:        res.Balance.StringFixed(2),
		BalanceDisplay: res.BalanceDisplay,
		Message:        res.Message,
		Entry:          toEntryResponse(res.Entry),
	}
}

func toEntryResponse(e service.EntryView) EntryResponse {
	return EntryResponse{
		Sequence:     e.Sequence,
		Timestamp:    e.Timestamp.UTC().Format(time.RFC3339),
		Kind:         string(e.Kind),
		Amount:       e.Amount.StringFixed(2),
		Outcome:      string(e.Outcome),
		BalanceAfter: e.BalanceAfter.StringFixed(2),
		Description:  e.Description,
	}
}
