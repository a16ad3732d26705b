package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/stepbar/stepbar/progress"
)

// Demo program showing how to consume the channel reporter and drive the
// fill renderer directly.
func main() {
	fmt.Println("=== Progress Rendering Demo ===")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reporter := progress.NewChannelReporter(ctx)

	go simulateTraining(reporter)
	displayProgress(reporter)

	fmt.Println("=== Demo Complete ===")
}

// simulateTraining publishes the events of a two-epoch training run.
func simulateTraining(reporter *progress.ChannelReporter) {
	const epochs = 2
	const stepsPerEpoch = 45

	reporter.Report(progress.Event{
		Stage:   progress.StageInit,
		Message: "Initializing training run",
	})
	time.Sleep(300 * time.Millisecond)

	reporter.Report(progress.Event{
		Stage:   progress.StageDataLoad,
		Total:   60000,
		Message: "train-images",
	})
	time.Sleep(300 * time.Millisecond)

	for epoch := 1; epoch <= epochs; epoch++ {
		reporter.Report(progress.Event{
			Stage:   progress.StageEpoch,
			Current: epoch,
			Total:   epochs,
		})
		for step := 1; step <= stepsPerEpoch; step++ {
			time.Sleep(30 * time.Millisecond) // Simulate work
			reporter.Report(progress.Event{
				Stage:   progress.StageStep,
				Current: step,
				Total:   stepsPerEpoch,
			})
		}
	}

	reporter.Report(progress.Event{
		Stage:   progress.StageEval,
		Message: "accuracy=0.98",
	})
	reporter.Report(progress.Event{
		Stage:   progress.StageComplete,
		Message: "Training complete",
	})

	reporter.Close()
}

// displayProgress consumes events and renders a fill bar per epoch.
func displayProgress(reporter *progress.ChannelReporter) {
	var bar *progress.Renderer
	label := ""

	for event := range reporter.Events() {
		switch event.Stage {
		case progress.StageInit:
			fmt.Printf("%s\n", event.Message)

		case progress.StageDataLoad:
			fmt.Printf("Loaded %d samples (%s)\n", event.Total, event.Message)

		case progress.StageEpoch:
			label = fmt.Sprintf("epoch %d/%d", event.Current, event.Total)
			bar = nil

		case progress.StageStep:
			if event.Total <= 0 {
				continue
			}
			if bar == nil {
				b, err := progress.NewRenderer(event.Total,
					progress.WithBarWidth(40),
					progress.WithLabel(label),
					progress.WithWriter(os.Stdout),
				)
				if err != nil {
					fmt.Fprintf(os.Stderr, "failed to create renderer: %v\n", err)
					continue
				}
				bar = b
			}
			if _, err := bar.Advance(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to render progress: %v\n", err)
			}
			if bar.Complete() {
				fmt.Println()
				bar = nil
			}

		case progress.StageEval:
			fmt.Printf("Eval: %s\n", event.Message)

		case progress.StageComplete:
			fmt.Printf("%s\n", event.Message)
		}
	}
}
