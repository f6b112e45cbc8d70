package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"bank-ledger/internal/config"
	"bank-ledger/internal/server"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type IntegrationTestSuite struct {
	suite.Suite
	serverInstance *server.Server
	baseURL        string
	client         *http.Client
}

func (suite *IntegrationTestSuite) SetupSuite() {
	cfg := &config.Config{
		ServerPort:      "0", // Let OS choose a free port
		CurrencySymbol:  "₹",
		MaxAmount:       "10000000000",
		ShutdownTimeout: 5 * time.Second,
	}

	serverInstance, _, err := server.StartServer(cfg)
	if err != nil {
		suite.T().Fatalf("Failed to start application server: %s", err)
	}
	suite.serverInstance = serverInstance
	suite.baseURL = serverInstance.GetBaseURL()
	suite.client = &http.Client{Timeout: 10 * time.Second}

	if err := suite.waitForServerReady(); err != nil {
		suite.T().Fatal(err)
	}
}

func (suite *IntegrationTestSuite) waitForServerReady() error {
	timeout := 10 * time.Second
	start := time.Now()

	for time.Since(start) < timeout {
		resp, err := http.Get(suite.baseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return nil
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}

func (suite *IntegrationTestSuite) TearDownSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if suite.serverInstance != nil {
		suite.serverInstance.Stop(ctx)
	}
}

// do sends a request and decodes the response envelope.
func (suite *IntegrationTestSuite) do(method, path string, reqBody interface{}) (int, map[string]interface{}) {
	var body io.Reader = http.NoBody
	if reqBody != nil {
		raw, _ := json.Marshal(reqBody)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, suite.baseURL+path, body)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := suite.client.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var response map[string]interface{}
	if err := json.Unmarshal(respBody, &response); err != nil {
		suite.T().Fatalf("Failed to parse response: %s", respBody)
	}
	return resp.StatusCode, response
}

func (suite *IntegrationTestSuite) data(response map[string]interface{}) map[string]interface{} {
	data, ok := response["data"].(map[string]interface{})
	suite.Require().True(ok, "Response should have 'data' field: %v", response)
	return data
}

func (suite *IntegrationTestSuite) errorCode(response map[string]interface{}) string {
	errInfo, ok := response["error"].(map[string]interface{})
	suite.Require().True(ok, "Response should have 'error' field: %v", response)
	return errInfo["code"].(string)
}

func (suite *IntegrationTestSuite) createAccount(name, initial string) (int, map[string]interface{}) {
	return suite.do(http.MethodPost, "/account", map[string]string{
		"holder_name":     name,
		"initial_deposit": initial,
	})
}

func (suite *IntegrationTestSuite) deposit(amount string) (int, map[string]interface{}) {
	return suite.do(http.MethodPost, "/account/deposit", map[string]string{"amount": amount})
}

func (suite *IntegrationTestSuite) withdraw(amount string) (int, map[string]interface{}) {
	return suite.do(http.MethodPost, "/account/withdraw", map[string]string{"amount": amount})
}

func (suite *IntegrationTestSuite) balance() string {
	code, resp := suite.do(http.MethodGet, "/account/balance", nil)
	suite.Require().Equal(http.StatusOK, code)
	return suite.data(resp)["balance"].(string)
}

func (suite *IntegrationTestSuite) historyLen() int {
	code, resp := suite.do(http.MethodGet, "/account/history", nil)
	suite.Require().Equal(http.StatusOK, code)
	return len(suite.data(resp)["entries"].([]interface{}))
}

// Helper to compare decimal values properly
func (suite *IntegrationTestSuite) assertDecimalEqual(expected, actual string) {
	expectedDec := decimal.RequireFromString(expected)
	actualDec, err := decimal.NewFromString(actual)
	if err != nil {
		suite.T().Fatalf("Invalid actual decimal: %s", actual)
	}
	assert.True(suite.T(), expectedDec.Equal(actualDec),
		"Decimal values not equal: expected %s, got %s", expected, actual)
}

// ------------------------------------------------------------------
// Steps run in the order TestFlow invokes them; each builds on the
// state the previous one left behind.
// ------------------------------------------------------------------

func (suite *IntegrationTestSuite) stepNoAccountYet() {
	code, resp := suite.do(http.MethodGet, "/account/balance", nil)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("no_account", suite.errorCode(resp))

	code, resp = suite.deposit("10")
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("no_account", suite.errorCode(resp))
}

func (suite *IntegrationTestSuite) stepInvalidCreation() {
	code, resp := suite.createAccount("   ", "100")
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("invalid_holder_name", suite.errorCode(resp))

	code, resp = suite.createAccount("Asha", "-5")
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("invalid_amount", suite.errorCode(resp))

	code, resp = suite.createAccount("Asha", "a hundred")
	suite.Equal(http.StatusBadRequest, code)
	suite.Equal("invalid_input", suite.errorCode(resp))
}

func (suite *IntegrationTestSuite) stepCreateAccount() {
	code, resp := suite.createAccount("Asha", "100.00")
	suite.Require().Equal(http.StatusCreated, code)

	data := suite.data(resp)
	suite.Equal("Asha", data["holder_name"])
	suite.Equal("₹100.00", data["balance_display"])
	suite.assertDecimalEqual("100.00", suite.balance())
	suite.Equal(1, suite.historyLen())
}

func (suite *IntegrationTestSuite) stepDeposit() {
	code, resp := suite.deposit("50.00")
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal(true, suite.data(resp)["accepted"])

	suite.assertDecimalEqual("150.00", suite.balance())
	suite.Equal(2, suite.historyLen())
}

func (suite *IntegrationTestSuite) stepInsufficientFunds() {
	code, resp := suite.withdraw("150.01")
	suite.Require().Equal(http.StatusOK, code)

	data := suite.data(resp)
	suite.Equal(false, data["accepted"])
	suite.Equal("Insufficient balance!", data["message"])

	suite.assertDecimalEqual("150.00", suite.balance())
	suite.Equal(3, suite.historyLen())
}

func (suite *IntegrationTestSuite) stepInvalidAmounts() {
	for _, amount := range []string{"0", "-1", "0.001"} {
		code, resp := suite.withdraw(amount)
		suite.Equal(http.StatusBadRequest, code, "amount %s", amount)
		suite.Equal("invalid_amount", suite.errorCode(resp))
	}
	for _, amount := range []string{"1e2", "1e-20000000", "1e20000000"} {
		code, resp := suite.deposit(amount)
		suite.Equal(http.StatusBadRequest, code, "amount %s", amount)
		suite.Equal("invalid_input", suite.errorCode(resp))
	}
	suite.Equal(3, suite.historyLen(), "invalid amounts are not logged")
}

func (suite *IntegrationTestSuite) stepWithdrawExactBalance() {
	code, resp := suite.withdraw("150.00")
	suite.Require().Equal(http.StatusOK, code)

	data := suite.data(resp)
	suite.Equal(true, data["accepted"])
	suite.Equal("₹0.00", data["balance_display"])
	suite.assertDecimalEqual("0", suite.balance())
	suite.Equal(4, suite.historyLen())
}

func (suite *IntegrationTestSuite) stepConcurrentDeposits() {
	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, _ := json.Marshal(map[string]string{"amount": "1.25"})
			resp, err := suite.client.Post(suite.baseURL+"/account/deposit", "application/json", bytes.NewReader(body))
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	suite.assertDecimalEqual("25.00", suite.balance())
	suite.Equal(4+n, suite.historyLen())
}

func (suite *IntegrationTestSuite) stepReset() {
	code, resp := suite.do(http.MethodDelete, "/account", nil)
	suite.Require().Equal(http.StatusOK, code)
	suite.Equal(true, suite.data(resp)["discarded"])

	code, resp = suite.do(http.MethodGet, "/account/history", nil)
	suite.Equal(http.StatusNotFound, code)
	suite.Equal("no_account", suite.errorCode(resp))
}

func (suite *IntegrationTestSuite) TestFlow() {
	suite.stepNoAccountYet()
	suite.stepInvalidCreation()
	suite.stepCreateAccount()
	suite.stepDeposit()
	suite.stepInsufficientFunds()
	suite.stepInvalidAmounts()
	suite.stepWithdrawExactBalance()
	suite.stepConcurrentDeposits()
	suite.stepReset()
}

func TestIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(IntegrationTestSuite))
}
