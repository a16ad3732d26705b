// Package progress provides progress rendering and reporting for stepped
// workloads such as training loops and batch jobs.
//
// The package has two layers:
//
//   - Renderer: a fixed-width, append-only fill bar for loops with a known
//     step count. Fill characters are distributed across steps with integer
//     error diffusion, so the bar lands on exactly its configured width after
//     the final step no matter how the step count divides into it.
//
//   - An event pipeline: workloads publish Events through Collectors, a
//     Progress hub fans them out, and Reporters render them (text, JSON,
//     fill bar, or a channel for programmatic consumers).
//
// Driving a bar directly:
//
//	bar, err := progress.NewRenderer(len(batches),
//	    progress.WithBarWidth(60),
//	    progress.WithLabel("epoch 1/5"),
//	)
//	if err != nil {
//	    return err
//	}
//	for _, b := range batches {
//	    train(b)
//	    if _, err := bar.Advance(); err != nil {
//	        return err
//	    }
//	}
//
// Publishing events through the pipeline:
//
//	col := collector.New()
//	prog, _ := progress.New(
//	    progress.WithContext(ctx),
//	    progress.WithCollectors(col),
//	    progress.WithReporters(reporter.NewTextReporter(os.Stderr)),
//	)
//	col.Report(progress.Event{Stage: progress.StageStep, Current: i, Total: n})
package progress
