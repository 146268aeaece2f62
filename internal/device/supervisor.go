package device

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"kioskgate/internal/scan"
	id "kioskgate/pkg/domain"
)

// Supervisor runs the runtimes for every device this daemon controls.
// Devices are independent: one device's failure never touches another's
// capture loop.
type Supervisor struct {
	runtimes map[id.DeviceID]*Runtime
	log      *log.Logger
}

func NewSupervisor(logger *log.Logger) *Supervisor {
	if logger == nil {
		logger = log.Default()
	}
	return &Supervisor{
		runtimes: make(map[id.DeviceID]*Runtime),
		log:      logger,
	}
}

func (s *Supervisor) Add(rt *Runtime) {
	s.runtimes[rt.DeviceID()] = rt
}

// Runtime returns the runtime controlling the given device.
func (s *Supervisor) Runtime(deviceID id.DeviceID) (*Runtime, bool) {
	rt, ok := s.runtimes[deviceID]
	return rt, ok
}

// Run resumes any sessions left in the store, drains each runtime's outcome
// stream into the log, and blocks until ctx is cancelled. On cancellation
// every capture loop is stopped before Run returns.
func (s *Supervisor) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, rt := range s.runtimes {
		rt := rt

		g.Go(func() error {
			if sess, err := rt.Resume(ctx); err != nil {
				s.log.Printf("device %s: resume: %v", rt.DeviceID(), err)
			} else if sess != nil {
				s.log.Printf("device %s: resumed session %s for %s", rt.DeviceID(), sess.ID, sess.IdentityID)
			}
			<-ctx.Done()
			rt.Shutdown()
			return nil
		})

		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case out := <-rt.Results():
					s.logOutcome(rt.DeviceID(), out)
				}
			}
		})
	}

	return g.Wait()
}

func (s *Supervisor) logOutcome(deviceID id.DeviceID, out scan.Outcome) {
	switch {
	case out.Err != nil:
		s.log.Printf("device %s: %s raw=%q: %v", deviceID, out.Kind, out.Raw, out.Err)
	case out.Subject != nil:
		s.log.Printf("device %s: %s subject=%s", deviceID, out.Kind, out.Subject.ID)
	default:
		s.log.Printf("device %s: %s raw=%q", deviceID, out.Kind, out.Raw)
	}
}
