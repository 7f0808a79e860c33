// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"context"
	"sync"
)

// Robot is the protocol engine for one manipulator arm. All operations
// run on a single command lane in issue order; the cached device state
// reflects only commands this engine sent, which assumes this engine
// is the sole writer on the line.
type Robot struct {
	ch *Channel

	mu          sync.Mutex
	pose        *Pose // nil until first hardware read or absolute move
	gripperOpen bool
	toolLength  int
	toolSet     bool
	speed       int
	speedSet    bool
}

// Connect opens portName with the controller's line configuration and
// returns a ready engine.
func Connect(portName string, opts ...Option) (*Robot, error) {
	tr, err := OpenSerial(portName)
	if err != nil {
		return nil, err
	}
	return New(tr, opts...), nil
}

// New builds an engine on an already-open transport.
func New(tr Transport, opts ...Option) *Robot {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Robot{ch: NewChannel(tr, cfg.ResponseTimeout, cfg.SettleDelay)}
}

// Close shuts down the transport. Pending waiters are rejected with
// ErrDisconnected; the cached state is discarded with the engine.
func (r *Robot) Close() error {
	return r.ch.Close()
}

// Connected reports whether the underlying channel is still usable.
func (r *Robot) Connected() bool {
	return r.ch.IsOpen()
}

// MoveTo moves the arm to p. With interpolate > 0 the controller
// inserts that many intermediate points on a straight line, driven
// through path slot 1 as a three-command burst. The cache is updated
// optimistically to p on success.
func (r *Robot) MoveTo(ctx context.Context, p Pose, interpolate int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.moveTo(ctx, p, interpolate)
}

func (r *Robot) moveTo(ctx context.Context, p Pose, interpolate int) error {
	if interpolate > 0 {
		if err := r.ch.Tell(ctx, EncodePositionClear(1)); err != nil {
			return err
		}
		if err := r.ch.Tell(ctx, EncodePositionDefine(1, p)); err != nil {
			return err
		}
		if err := r.ch.Tell(ctx, EncodeMoveStraight(1, interpolate, r.gripperOpen)); err != nil {
			return err
		}
	} else {
		if err := r.ch.Tell(ctx, EncodeMovePosition(p)); err != nil {
			return err
		}
	}
	pose := p
	r.pose = &pose
	return nil
}

// MoveDelta offsets the cached pose by three linear deltas, keeping
// the cached pitch and roll. Fails with ErrNoCachedPose before any
// pose is known.
func (r *Robot) MoveDelta(ctx context.Context, dx, dy, dz float64, interpolate int) error {
	return r.MoveDeltaPose(ctx, Pose{X: dx, Y: dy, Z: dz}, interpolate)
}

// MoveDeltaPose offsets the cached pose by a full five-axis delta.
// Fails with ErrNoCachedPose before any pose is known.
func (r *Robot) MoveDeltaPose(ctx context.Context, d Pose, interpolate int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pose == nil {
		return ErrNoCachedPose
	}
	return r.moveTo(ctx, r.pose.Add(d), interpolate)
}

// MovePath stores each pose into path slots 1..N in order, paced by
// the settle delay, then executes the stored range in one motion.
// Slot numbering is 1-based on the wire.
func (r *Robot) MovePath(ctx context.Context, path []Pose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(path) == 0 {
		return nil
	}
	for i, p := range path {
		if err := r.ch.Tell(ctx, EncodePositionDefine(i+1, p)); err != nil {
			return err
		}
	}
	if err := r.ch.Tell(ctx, EncodeMoveContinuous(1, len(path))); err != nil {
		return err
	}
	last := path[len(path)-1]
	r.pose = &last
	return nil
}

// Pose returns the cached pose as a copy without any transport I/O
// when one is present and refresh is false. Otherwise it queries the
// controller, parses the report, and stores the result.
func (r *Robot) Pose(ctx context.Context, refresh bool) (Pose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshPose(ctx, refresh)
}

func (r *Robot) refreshPose(ctx context.Context, refresh bool) (Pose, error) {
	if !refresh && r.pose != nil {
		return *r.pose, nil
	}
	line, err := r.ch.Ask(ctx, cmdWhere)
	if err != nil {
		return Pose{}, err
	}
	p, err := ParsePose(line)
	if err != nil {
		return Pose{}, err
	}
	r.pose = &p
	return p, nil
}

// CachedPose returns the cached pose without any transport I/O, and
// whether one is known.
func (r *Robot) CachedPose() (Pose, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pose == nil {
		return Pose{}, false
	}
	return *r.pose, true
}

// OpenGripper opens the gripper.
func (r *Robot) OpenGripper(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ch.Tell(ctx, cmdGripOpen); err != nil {
		return err
	}
	r.gripperOpen = true
	return nil
}

// CloseGripper closes the gripper.
func (r *Robot) CloseGripper(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ch.Tell(ctx, cmdGripClose); err != nil {
		return err
	}
	r.gripperOpen = false
	return nil
}

// GripperOpen reports the cached gripper state.
func (r *Robot) GripperOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gripperOpen
}

// SetSpeed sets the movement speed class 0-9. Fractional input is
// truncated toward zero (5.9 becomes 5); values outside the range,
// NaN included, fail before any bytes are written.
func (r *Robot) SetSpeed(ctx context.Context, speed float64) error {
	// Inclusive form: false for NaN, so it never reaches int().
	if !(speed >= MinSpeed && speed <= MaxSpeed) {
		return &ValidationError{Field: "speed", Value: speed, Min: MinSpeed, Max: MaxSpeed}
	}
	n := int(speed)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ch.Tell(ctx, EncodeSpeed(n)); err != nil {
		return err
	}
	r.speed = n
	r.speedSet = true
	return nil
}

// Speed returns the cached speed class and whether one has been set.
func (r *Robot) Speed() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.speed, r.speedSet
}

// SetToolLength configures the tool length in millimeters, truncated
// to whole millimeters. Input outside 0-999 mm, NaN included, fails
// before any bytes are written.
func (r *Robot) SetToolLength(ctx context.Context, mm float64) error {
	// Inclusive form: false for NaN, so it never reaches int().
	if !(mm >= 0 && mm <= MaxToolLength) {
		return &ValidationError{Field: "tool length", Value: mm, Min: 0, Max: MaxToolLength}
	}
	n := int(mm)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ch.Tell(ctx, EncodeToolLength(n)); err != nil {
		return err
	}
	r.toolLength = n
	r.toolSet = true
	return nil
}

// ToolLength returns the cached tool length and whether one has been
// configured (distinguishing "never configured" from zero).
func (r *Robot) ToolLength() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.toolLength, r.toolSet
}

// SetGripPressure configures gripping force: starting force 0-15,
// retained force 0-15, start time 0-99. Out-of-range values fail
// before any bytes are written.
func (r *Robot) SetGripPressure(ctx context.Context, startForce, holdForce, startTime int) error {
	if startForce < 0 || startForce > MaxGripStartForce {
		return &ValidationError{Field: "startForce", Value: float64(startForce), Min: 0, Max: MaxGripStartForce}
	}
	if holdForce < 0 || holdForce > MaxGripHoldForce {
		return &ValidationError{Field: "holdForce", Value: float64(holdForce), Min: 0, Max: MaxGripHoldForce}
	}
	if startTime < 0 || startTime > MaxGripStartTime {
		return &ValidationError{Field: "startTime", Value: float64(startTime), Min: 0, Max: MaxGripStartTime}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ch.Tell(ctx, EncodeGripPressure(startForce, holdForce, startTime))
}

// RotateAxes turns each axis by the given angular deltas, then
// re-reads the pose from hardware: joint rotation is not a vector sum
// on the cached pose.
func (r *Robot) RotateAxes(ctx context.Context, d Pose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ch.Tell(ctx, EncodeMoveJoint(d)); err != nil {
		return err
	}
	_, err := r.refreshPose(ctx, true)
	return err
}

// Home moves the arm to its origin posture. The cached pose is
// invalidated; the destination is not expressible as coordinates.
func (r *Robot) Home(ctx context.Context) error {
	return r.tellInvalidating(ctx, cmdOriginGo)
}

// Nest moves the arm to its mechanical origin.
func (r *Robot) Nest(ctx context.Context) error {
	return r.tellInvalidating(ctx, cmdNest)
}

// Reset resets the control box.
func (r *Robot) Reset(ctx context.Context) error {
	return r.tellInvalidating(ctx, cmdReset)
}

func (r *Robot) tellInvalidating(ctx context.Context, cmd string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ch.Tell(ctx, cmd); err != nil {
		return err
	}
	r.pose = nil
	return nil
}

// ErrorCode queries the controller's current error code.
func (r *Robot) ErrorCode(ctx context.Context) (ErrorCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line, err := r.ch.Ask(ctx, cmdErrorRead)
	if err != nil {
		return CodeUnknown, err
	}
	return ParseErrorCode(line), nil
}

// Checked runs op to completion and then queries the controller error
// code. A failure from op itself propagates unchanged; otherwise a
// non-zero code fails with CommandError. Fire-and-forget commands get
// no per-command acknowledgment, so this is the way to detect that
// one was rejected.
func (r *Robot) Checked(ctx context.Context, op func(context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}
	code, err := r.ErrorCode(ctx)
	if err != nil {
		return err
	}
	if code != CodeOk {
		return &CommandError{Code: code}
	}
	return nil
}

// Send writes a raw command with no reply expected. Intended for
// interactive use; prefer the typed operations.
func (r *Robot) Send(ctx context.Context, cmd string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ch.Tell(ctx, cmd)
}

// Query writes a raw command and returns its framed reply. Intended
// for interactive use; prefer the typed operations.
func (r *Robot) Query(ctx context.Context, cmd string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ch.Ask(ctx, cmd)
}
