package net

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Callback observes training progress. Callbacks run inline with the epoch
// loop: OnEpochEnd is invoked exactly once per epoch and never concurrently
// with itself.
type Callback interface {
	OnTrainBegin(n *Network)
	OnTrainEnd(n *Network)
	OnEpochEnd(stats EpochStats, n *Network)
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (BaseCallback) OnTrainBegin(n *Network)                {}
func (BaseCallback) OnTrainEnd(n *Network)                  {}
func (BaseCallback) OnEpochEnd(stats EpochStats, n *Network) {}

// Logger logs training progress to console.
type Logger struct {
	BaseCallback
	Interval int
}

func (c Logger) OnEpochEnd(stats EpochStats, n *Network) {
	if c.Interval > 0 && stats.Epoch%c.Interval == 0 {
		fmt.Printf("Epoch %d: train_loss = %.6f, val_loss = %.6f, w1_mean = %.4f, w2_mean = %.4f\n",
			stats.Epoch, stats.TrainLoss, stats.ValLoss, stats.W1Mean, stats.W2Mean)
	}
}

// CSVLogger logs per-epoch losses to a CSV file, one row per completed
// epoch: epoch, train_loss, val_loss, time_seconds.
type CSVLogger struct {
	BaseCallback
	Filename string
	Append   bool

	file   *os.File
	writer *csv.Writer
	start  time.Time
}

// NewCSVLogger creates a new CSVLogger.
func NewCSVLogger(filename string, append bool) *CSVLogger {
	return &CSVLogger{
		Filename: filename,
		Append:   append,
	}
}

func (c *CSVLogger) OnTrainBegin(n *Network) {
	mode := os.O_CREATE | os.O_WRONLY
	if c.Append {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(c.Filename, mode, 0644)
	if err != nil {
		fmt.Printf("CSVLogger: failed to open file %s: %v\n", c.Filename, err)
		return
	}
	c.file = file
	c.writer = csv.NewWriter(file)
	c.start = time.Now()

	// Write header if not appending or if file is empty
	info, err := file.Stat()
	if err == nil && (info.Size() == 0 || !c.Append) {
		c.writer.Write([]string{"epoch", "train_loss", "val_loss", "time_seconds"})
		c.writer.Flush()
	}
}

func (c *CSVLogger) OnEpochEnd(stats EpochStats, n *Network) {
	if c.writer == nil {
		return
	}

	elapsed := time.Since(c.start).Seconds()
	record := []string{
		strconv.Itoa(stats.Epoch),
		fmt.Sprintf("%.6f", stats.TrainLoss),
		fmt.Sprintf("%.6f", stats.ValLoss),
		fmt.Sprintf("%.2f", elapsed),
	}

	if err := c.writer.Write(record); err != nil {
		fmt.Printf("CSVLogger: failed to write record: %v\n", err)
	}
	c.writer.Flush()
}

func (c *CSVLogger) OnTrainEnd(n *Network) {
	if c.file != nil {
		c.writer.Flush()
		c.file.Close()
		c.file = nil
		c.writer = nil
	}
}
