// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.gasstation.io/station/customer"
	"go.gasstation.io/station/model"
	"go.gasstation.io/station/registry"
)

type mockStation struct {
	mock.Mock
}

var _ Station = (*mockStation)(nil)

func (m *mockStation) ApproveTransaction(pumpID int) (bool, error) {
	args := m.Called(pumpID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStation) DeclineTransaction(pumpID int) (bool, error) {
	args := m.Called(pumpID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStation) RefillTank(ctx context.Context, grade model.FuelGrade) error {
	return m.Called(grade).Error(0)
}

func (m *mockStation) SetUnitPrice(grade model.FuelGrade, unitPrice float64) error {
	return m.Called(grade, unitPrice).Error(0)
}

func (m *mockStation) AcquireAndRunCustomer() *customer.Customer {
	c, _ := m.Called().Get(0).(*customer.Customer)
	return c
}

func (m *mockStation) StatusString(c *customer.Customer) string {
	return m.Called(c).String(0)
}

func (m *mockStation) Customers() []*customer.Customer {
	return m.Called().Get(0).([]*customer.Customer)
}

func (m *mockStation) HistorySince(n int) []model.TransactionRecord {
	return m.Called(n).Get(0).([]model.TransactionRecord)
}

func (m *mockStation) PublishedRecord(pumpID int) (model.TransactionRecord, error) {
	args := m.Called(pumpID)
	return args.Get(0).(model.TransactionRecord), args.Error(1)
}

func (m *mockStation) TankVolume(grade model.FuelGrade) (float64, error) {
	args := m.Called(grade)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockStation) NumPumps() int {
	return m.Called().Int(0)
}

func newTestShell(t *testing.T) (*Shell, *mockStation, *bytes.Buffer) {
	station := &mockStation{}
	station.Test(t)
	t.Cleanup(func() { station.AssertExpectations(t) })
	out := &bytes.Buffer{}
	return NewShell(context.Background(), station, out), station, out
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"op", "3"}, tokenize("OP3"))
	assert.Equal(t, []string{"op", "3"}, tokenize("  op 3 "))
	assert.Equal(t, []string{"pr", "2", "4.9"}, tokenize("PR2 4.9"))
	assert.Equal(t, []string{"approve", "12"}, tokenize("approve 12"))
	assert.Empty(t, tokenize("   "))
}

func TestApproveCommandForms(t *testing.T) {
	shell, station, out := newTestShell(t)
	station.On("ApproveTransaction", 3).Return(true, nil).Times(3)

	for _, line := range []string{"OP3", "op 3", "approve 3"} {
		assert.False(t, shell.Execute(line))
	}
	assert.Equal(t, 3, strings.Count(out.String(), "Pump 3 approved"))
}

func TestApproveNothingPending(t *testing.T) {
	shell, station, out := newTestShell(t)
	station.On("ApproveTransaction", 1).Return(false, nil).Once()

	shell.Execute("OP1")
	assert.Contains(t, out.String(), "Pump 1 has no transaction awaiting authorization")
}

func TestDeclineCommand(t *testing.T) {
	shell, station, out := newTestShell(t)
	station.On("DeclineTransaction", 0).Return(true, nil).Once()

	shell.Execute("DN0")
	assert.Contains(t, out.String(), "Pump 0 declined")
}

func TestInvalidInputIsReported(t *testing.T) {
	shell, station, out := newTestShell(t)
	station.On("ApproveTransaction", 9).Return(false, registry.ErrOutOfRange).Once()

	shell.Execute("XX1")
	assert.Contains(t, out.String(), `Invalid command "XX1"`)
	out.Reset()

	shell.Execute("op abc")
	assert.Contains(t, out.String(), "Invalid command")
	out.Reset()

	shell.Execute("op9")
	assert.Contains(t, out.String(), registry.ErrOutOfRange.Error())
	out.Reset()

	shell.Execute("rf diesel")
	assert.Contains(t, out.String(), model.ErrInvalidGrade.Error())
}

func TestPrintOnlyNewTransactions(t *testing.T) {
	shell, station, out := newTestShell(t)
	first := model.TransactionRecord{Name: "Alice", CardNumber: "1111 2222 3333", PumpID: 2, Grade: model.Oct87, ReceivedVolume: 15, UnitPrice: 4.1, Cost: 61.5, Status: model.Archived}
	second := first
	second.Name = "Bob"

	station.On("HistorySince", 0).Return([]model.TransactionRecord{first}).Once()
	station.On("HistorySince", 1).Return([]model.TransactionRecord{second}).Once()

	shell.Execute("PT")
	assert.Contains(t, out.String(), "Alice")
	assert.Contains(t, out.String(), "61.50")
	out.Reset()

	shell.Execute("print")
	assert.Contains(t, out.String(), "Bob")
	assert.NotContains(t, out.String(), "Alice")
	assert.Equal(t, 2, shell.printed)
}

func TestPriceCommand(t *testing.T) {
	shell, station, out := newTestShell(t)
	station.On("SetUnitPrice", model.Oct91, 5.05).Return(nil).Once()

	shell.Execute("PR2 5.05")
	assert.Contains(t, out.String(), "Oct 91 now costs 5.05")
}

func TestRefillCommandRunsInBackground(t *testing.T) {
	shell, station, out := newTestShell(t)
	done := make(chan struct{})
	station.On("RefillTank", model.Oct89).Return(nil).Run(func(mock.Arguments) { close(done) }).Once()

	shell.Execute("RF1")
	assert.Contains(t, out.String(), "Refilling Oct 89 tank")
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refill did not run")
	}
}

func TestCustomerCommandLimit(t *testing.T) {
	shell, station, out := newTestShell(t)
	station.On("AcquireAndRunCustomer").Return(nil).Once()

	shell.Execute("CU")
	assert.Contains(t, out.String(), "No more customers admitted")
}

func TestStatusCommand(t *testing.T) {
	shell, station, out := newTestShell(t)
	busy := model.TransactionRecord{ID: "txn", Name: "Frank", CardNumber: "1 2 3", PumpID: 1, Grade: model.Oct94, RequestedVolume: 30, ReceivedVolume: 10, UnitPrice: 5.2, Cost: 52, Status: model.Approved}

	station.On("NumPumps").Return(2)
	station.On("PublishedRecord", 0).Return(model.NewResetRecord(), nil)
	station.On("PublishedRecord", 1).Return(busy, nil)
	station.On("TankVolume", mock.Anything).Return(480.0, nil)
	station.On("Customers").Return([]*customer.Customer{})

	shell.Execute("ST")
	assert.Contains(t, out.String(), "Idle")
	assert.Contains(t, out.String(), "Frank")
	assert.Contains(t, out.String(), "480.0")
}

func TestExitAndRun(t *testing.T) {
	shell, station, out := newTestShell(t)
	station.On("ApproveTransaction", 0).Return(true, nil).Once()

	err := shell.Run(strings.NewReader("OP0\nEX\nOP0\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out.String(), "approved"))
}

func TestRunEndsOnEOF(t *testing.T) {
	shell, _, _ := newTestShell(t)
	assert.NoError(t, shell.Run(strings.NewReader("\n\n")))
}

func TestHelp(t *testing.T) {
	shell, _, out := newTestShell(t)
	assert.False(t, shell.Execute("-h"))
	assert.Contains(t, out.String(), "approve")
}
