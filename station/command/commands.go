// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"go.gasstation.io/station/model"
)

type pumpArgs struct {
	Pump int `positional-arg-name:"pump" description:"pump index"`
}

type approveCommand struct {
	shell *Shell
	Args  pumpArgs `positional-args:"yes" required:"yes"`
}

func (c *approveCommand) Execute(args []string) error {
	approved, err := c.shell.station.ApproveTransaction(c.Args.Pump)
	if err != nil {
		return err
	}
	if !approved {
		fmt.Fprintf(c.shell.out, "Pump %d has no transaction awaiting authorization\n", c.Args.Pump)
		return nil
	}
	fmt.Fprintf(c.shell.out, "Pump %d approved\n", c.Args.Pump)
	return nil
}

type declineCommand struct {
	shell *Shell
	Args  pumpArgs `positional-args:"yes" required:"yes"`
}

func (c *declineCommand) Execute(args []string) error {
	declined, err := c.shell.station.DeclineTransaction(c.Args.Pump)
	if err != nil {
		return err
	}
	if !declined {
		fmt.Fprintf(c.shell.out, "Pump %d has no transaction awaiting authorization\n", c.Args.Pump)
		return nil
	}
	fmt.Fprintf(c.shell.out, "Pump %d declined\n", c.Args.Pump)
	return nil
}

type printCommand struct {
	shell *Shell
}

func (c *printCommand) Execute(args []string) error {
	records := c.shell.station.HistorySince(c.shell.printed)
	if len(records) == 0 {
		fmt.Fprintln(c.shell.out, "No new transactions")
		return nil
	}

	w := tabwriter.NewWriter(c.shell.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCARD\tPUMP\tGRADE\tLITERS\tPRICE\tCOST\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.1f\t%.2f\t%.2f\t%s\n",
			r.Name, r.CardNumber, r.PumpID, r.Grade, r.ReceivedVolume, r.UnitPrice, r.Cost, r.Status)
	}
	c.shell.printed += len(records)
	return w.Flush()
}

type refillCommand struct {
	shell *Shell
	Args  struct {
		Tank string `positional-arg-name:"tank" description:"tank index 0-3 or grade"`
	} `positional-args:"yes" required:"yes"`
}

func (c *refillCommand) Execute(args []string) error {
	grade, err := model.ParseGrade(c.Args.Tank)
	if err != nil {
		return err
	}

	ctx := c.shell.ctx
	station := c.shell.station
	go func() {
		if err := station.RefillTank(ctx, grade); err != nil && ctx.Err() == nil {
			log.WithError(err).WithField("grade", grade).Warn("Refill failed")
		}
	}()
	fmt.Fprintf(c.shell.out, "Refilling %s tank\n", grade)
	return nil
}

type priceCommand struct {
	shell *Shell
	Args  struct {
		Grade string  `positional-arg-name:"grade" description:"tank index 0-3 or grade"`
		Price float64 `positional-arg-name:"price" description:"unit price"`
	} `positional-args:"yes" required:"yes"`
}

func (c *priceCommand) Execute(args []string) error {
	grade, err := model.ParseGrade(c.Args.Grade)
	if err != nil {
		return err
	}
	if err := c.shell.station.SetUnitPrice(grade, c.Args.Price); err != nil {
		return err
	}
	fmt.Fprintf(c.shell.out, "%s now costs %.2f\n", grade, c.Args.Price)
	return nil
}

type customerCommand struct {
	shell *Shell
	Count int `short:"n" long:"count" default:"1" description:"number of customers"`
}

func (c *customerCommand) Execute(args []string) error {
	for i := 0; i < c.Count; i++ {
		handle := c.shell.station.AcquireAndRunCustomer()
		if handle == nil {
			fmt.Fprintln(c.shell.out, "No more customers admitted")
			return nil
		}
		fmt.Fprintf(c.shell.out, "Customer %d arrived: %s\n", handle.Index(), c.shell.station.StatusString(handle))
	}
	return nil
}

type statusCommand struct {
	shell *Shell
}

func (c *statusCommand) Execute(args []string) error {
	station := c.shell.station
	w := tabwriter.NewWriter(c.shell.out, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, "PUMP\tCUSTOMER\tGRADE\tREQUESTED\tRECEIVED\tCOST\tSTATUS")
	for i := 0; i < station.NumPumps(); i++ {
		r, err := station.PublishedRecord(i)
		if err != nil {
			return err
		}
		if r.IsReset() {
			fmt.Fprintf(w, "%d\t-\t-\t-\t-\t-\tIdle\n", i)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%.1f\t%.2f\t%s\n", i, r.Name, r.Grade, r.RequestedVolume, r.ReceivedVolume, r.Cost, r.Status)
	}

	fmt.Fprintln(w, "\nTANK\tVOLUME")
	for _, grade := range model.Grades() {
		volume, err := station.TankVolume(grade)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.1f\n", grade, volume)
	}

	fmt.Fprintln(w, "\nCUSTOMER\tSTATUS")
	for _, customer := range station.Customers() {
		fmt.Fprintf(w, "%d\t%s\n", customer.Index(), station.StatusString(customer))
	}
	return w.Flush()
}

type exitCommand struct {
	shell *Shell
}

func (c *exitCommand) Execute(args []string) error {
	c.shell.exit = true
	return nil
}
