package imagegen

import (
	"context"
	"log"
	"time"
)

// pollInterval is how long the generator sleeps between record checks; the
// same delay is used to back off on transient record problems.
const pollInterval = time.Second

// FileOpener displays a generated image with the default viewer.
type FileOpener interface {
	OpenFile(ctx context.Context, path string) error
}

// Renderer turns one prompt into saved image files.
type Renderer interface {
	Generate(ctx context.Context, prompt string) ([]string, error)
}

// Generator is the poll loop of the out-of-process image worker.
type Generator struct {
	recordPath string
	renderer   Renderer
	opener     FileOpener
}

// NewGenerator creates the generator around the shared record at
// recordPath.
func NewGenerator(recordPath string, renderer Renderer, opener FileOpener) *Generator {
	return &Generator{recordPath: recordPath, renderer: renderer, opener: opener}
}

// Run polls the record until a pending prompt shows up, generates its
// images, clears the pending flag and returns. Missing or malformed
// records and empty prompts never stop the loop; only context cancellation
// does.
func (g *Generator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, err := ReadRecord(g.recordPath)
		if err != nil {
			// Possibly a partial write from the other process;
			// back off and reread.
			log.Printf("Record not readable, retrying: %v", err)
			sleep(ctx, pollInterval)
			continue
		}

		if rec.Idle() {
			sleep(ctx, pollInterval)
			continue
		}

		log.Printf("Generating images for prompt: %s", rec.Prompt)
		paths, genErr := g.renderer.Generate(ctx, rec.Prompt)

		// The pending flag is cleared whether or not generation
		// succeeded, so the requester never sees a stuck handshake.
		if err := WriteRecord(g.recordPath, Record{Prompt: rec.Prompt, Pending: false}); err != nil {
			log.Printf("Failed to clear pending flag: %v", err)
		}

		if genErr != nil {
			log.Printf("Image generation failed: %v", genErr)
			sleep(ctx, pollInterval)
			continue
		}

		for _, path := range paths {
			if err := g.opener.OpenFile(ctx, path); err != nil {
				log.Printf("Failed to open image %s: %v", path, err)
			}
		}

		log.Printf("Image generation completed (%d images)", len(paths))
		return nil
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
