// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package command implements the operator shell. Every command has a long
// name and the two letter code printed on the station console, so "OP3",
// "op 3" and "approve 3" are the same command.
package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/customer"
	"go.gasstation.io/station/model"
)

// Station is what the shell operates on.
type Station interface {
	ApproveTransaction(pumpID int) (bool, error)
	DeclineTransaction(pumpID int) (bool, error)
	RefillTank(ctx context.Context, grade model.FuelGrade) error
	SetUnitPrice(grade model.FuelGrade, unitPrice float64) error
	AcquireAndRunCustomer() *customer.Customer
	StatusString(c *customer.Customer) string
	Customers() []*customer.Customer
	HistorySince(n int) []model.TransactionRecord
	PublishedRecord(pumpID int) (model.TransactionRecord, error)
	TankVolume(grade model.FuelGrade) (float64, error)
	NumPumps() int
}

var compactCommand = regexp.MustCompile(`^([a-z]{2})(\d+)$`)

type Shell struct {
	ctx     context.Context
	station Station
	out     io.Writer
	parser  *flags.Parser

	// printed is the number of history records already printed.
	printed int
	exit    bool
}

func NewShell(ctx context.Context, station Station, out io.Writer) *Shell {
	s := &Shell{ctx: ctx, station: station, out: out}
	s.parser = flags.NewNamedParser("station", flags.HelpFlag|flags.PassDoubleDash)

	for _, c := range []struct {
		name, alias, short string
		data               interface{}
	}{
		{"approve", "op", "Approve the transaction pending on a pump", &approveCommand{shell: s}},
		{"decline", "dn", "Decline the transaction pending on a pump", &declineCommand{shell: s}},
		{"print", "pt", "Print transactions archived since the last print", &printCommand{shell: s}},
		{"refill", "rf", "Refill a tank, by index or grade", &refillCommand{shell: s}},
		{"price", "pr", "Set the unit price of a grade", &priceCommand{shell: s}},
		{"customer", "cu", "Send customers to the station", &customerCommand{shell: s}},
		{"status", "st", "Print pumps, tanks and customers", &statusCommand{shell: s}},
		{"exit", "ex", "Leave the shell", &exitCommand{shell: s}},
	} {
		cmd, err := s.parser.AddCommand(c.name, c.short, c.short, c.data)
		if err != nil {
			log.WithError(err).Panicf("Failed to register command %s", c.name)
		}
		cmd.Aliases = []string{c.alias}
	}
	return s
}

// Execute runs one command line and reports whether the shell should exit.
// Invalid input is reported on the shell output and changes nothing.
func (s *Shell) Execute(line string) bool {
	args := tokenize(line)
	if len(args) == 0 {
		return s.exit
	}

	if _, err := s.parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(s.out, flagsErr.Message)
		} else {
			fmt.Fprintf(s.out, "Invalid command %q: %s\n", strings.TrimSpace(line), err)
		}
	}
	return s.exit
}

// Run reads commands from in until exit, end of input, or ctx is done.
func (s *Shell) Run(in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-s.ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case line := <-lines:
			if s.Execute(line) {
				return nil
			}
		case err := <-readErr:
			return err
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}
}

func tokenize(line string) []string {
	args := strings.Fields(strings.ToLower(line))
	if len(args) > 0 {
		if m := compactCommand.FindStringSubmatch(args[0]); m != nil {
			args = append([]string{m[1], m[2]}, args[1:]...)
		}
	}
	return args
}
