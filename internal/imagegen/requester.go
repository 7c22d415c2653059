package imagegen

import (
	"fmt"
	"log"
	"os/exec"
	"sync"
)

// Requester hands prompts to the out-of-process image worker. It writes
// the shared record with the pending flag raised and launches one worker
// process per request, keeping handles so they can all be terminated on
// shutdown.
type Requester struct {
	recordPath string
	workerPath string

	mu    sync.Mutex
	procs []*exec.Cmd
}

// NewRequester returns a requester that spawns the worker binary at
// workerPath and hands it work through the record at recordPath.
func NewRequester(recordPath, workerPath string) *Requester {
	return &Requester{recordPath: recordPath, workerPath: workerPath}
}

// Request raises the pending flag for prompt and starts a worker process.
// It returns as soon as the worker is running; generation completes in the
// background.
func (r *Requester) Request(prompt string) error {
	if err := WriteRecord(r.recordPath, Record{Prompt: prompt, Pending: true}); err != nil {
		return fmt.Errorf("write image record: %w", err)
	}

	cmd := exec.Command(r.workerPath)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start image worker: %w", err)
	}

	r.mu.Lock()
	r.procs = append(r.procs, cmd)
	r.mu.Unlock()

	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("Image worker exited: %v", err)
		}
	}()

	log.Printf("Image worker started for prompt: %s", prompt)
	return nil
}

// TerminateAll kills every worker process this requester has started.
// Workers that already exited are skipped.
func (r *Requester) TerminateAll() {
	r.mu.Lock()
	procs := r.procs
	r.procs = nil
	r.mu.Unlock()

	for _, cmd := range procs {
		if cmd.Process == nil {
			continue
		}
		if cmd.ProcessState != nil && cmd.ProcessState.Exited() {
			continue
		}
		if err := cmd.Process.Kill(); err != nil {
			log.Printf("Failed to terminate image worker %d: %v", cmd.Process.Pid, err)
		}
	}
}
