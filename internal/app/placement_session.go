package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/example/geoanchor/internal/core/detection"
	"github.com/example/geoanchor/internal/core/effects"
	"github.com/example/geoanchor/internal/core/geometry"
	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/core/placement"
	"github.com/example/geoanchor/internal/ports/primary"
	"github.com/example/geoanchor/internal/ports/secondary"
)

// SessionConfig holds the per-session settings.
type SessionConfig struct {
	Tier          int  // external service tier, 1..3
	AllowSaveLoad bool // when false, confirm/remove never touch the catalog
	Detection     detection.Policy
	InitialMode   placement.Mode // defaults to remove
}

type candidate struct {
	handle secondary.ObjectHandle
	kind   item.Kind
}

type selection struct {
	handle   secondary.ObjectHandle
	original placement.Material
}

type detectionEvent struct {
	requestID uint64
	result    secondary.DetectionResult
}

// PlacementSessionImpl implements the PlacementSession interface.
//
// Everything except the detection inbox is owned by the host's interaction
// thread. Detection callbacks only append to the inbox; Tick drains it before
// checking the deadline, so a result queued before a tick always wins over
// that tick's timeout.
type PlacementSessionImpl struct {
	catalog  primary.CatalogService
	anchors  secondary.GeoAnchorService
	scene    secondary.SceneGraph
	clock    secondary.Clock
	executor EffectExecutor
	logger   *slog.Logger
	cfg      SessionConfig

	mode      placement.Mode
	candidate *candidate
	selection *selection
	request   detection.Request
	closed    bool

	inboxMu sync.Mutex
	inbox   []detectionEvent
}

// NewPlacementSession creates a new PlacementSession with injected dependencies.
func NewPlacementSession(
	cfg SessionConfig,
	catalog primary.CatalogService,
	anchors secondary.GeoAnchorService,
	scene secondary.SceneGraph,
	clock secondary.Clock,
	executor EffectExecutor,
	logger *slog.Logger,
) *PlacementSessionImpl {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.InitialMode == "" {
		cfg.InitialMode = placement.ModeRemove
	}
	cfg.Detection.Tier = cfg.Tier
	return &PlacementSessionImpl{
		catalog:  catalog,
		anchors:  anchors,
		scene:    scene,
		clock:    clock,
		executor: executor,
		logger:   logger,
		cfg:      cfg,
		mode:     cfg.InitialMode,
	}
}

// PointerDown dispatches a pointer press by the current mode.
func (s *PlacementSessionImpl) PointerDown(ctx context.Context, point secondary.ScreenPoint) {
	if s.closed {
		return
	}
	switch placement.StrategyFor(s.mode) {
	case placement.StrategySelection:
		s.selectAt(ctx, point)
	case placement.StrategyDetection:
		s.startDetection(ctx, point)
	case placement.StrategyRaycast:
		s.trackSurface(ctx, point)
	}
}

// PointerDrag re-runs continuous placement. Ignored in remove and tier1 modes.
func (s *PlacementSessionImpl) PointerDrag(ctx context.Context, point secondary.ScreenPoint) {
	if s.closed || !placement.TracksDrag(s.mode) {
		return
	}
	s.trackSurface(ctx, point)
}

// Tick processes queued detection results in arrival order, then checks the
// detection deadline.
func (s *PlacementSessionImpl) Tick() {
	if s.closed {
		return
	}
	ctx := context.Background()

	for _, ev := range s.drainInbox() {
		s.handleDetection(ctx, ev)
	}

	if s.request.CheckDeadline(s.clock.Now()) {
		s.apply(ctx, detection.TimedOutEffects(s.cfg.Detection, s.request.ID(), s.candidate != nil)...)
	}
}

// ConfirmPlacement commits the candidate to the catalog.
// A storage failure is returned and the candidate is kept so the user can retry.
func (s *PlacementSessionImpl) ConfirmPlacement(ctx context.Context) (*primary.ConfirmPlacementResponse, error) {
	if err := item.CanConfirmPlacement(item.PlacementContext{HasCandidate: s.candidate != nil}).Error(); err != nil {
		return nil, err
	}

	c := s.candidate
	pos, orientation, ok := s.scene.Pose(c.handle)
	if !ok {
		s.candidate = nil
		s.apply(ctx, effects.ControlsEffect{State: placement.ControlsReady})
		return nil, fmt.Errorf("candidate object %d no longer exists", c.handle)
	}

	record := item.Record{
		ID:          item.NewItemID(),
		Kind:        c.kind,
		Position:    s.anchors.LocalToGps(pos),
		Orientation: orientation,
	}

	resp := &primary.ConfirmPlacementResponse{Record: record}
	if s.cfg.AllowSaveLoad {
		if err := s.catalog.Add(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to save placement: %w", err)
		}
		s.scene.AssignID(c.handle, record.ID)
		resp.Persisted = true
		s.apply(ctx, effects.MessageEffect{Text: placement.MsgSaved, ClearAfter: placement.SavedClearAfter})
	}

	s.candidate = nil
	s.apply(ctx, effects.ControlsEffect{State: placement.ControlsReady})
	return resp, nil
}

// DiscardPlacement destroys the candidate without persisting it.
func (s *PlacementSessionImpl) DiscardPlacement(ctx context.Context) error {
	if err := item.CanDiscardPlacement(item.PlacementContext{HasCandidate: s.candidate != nil}).Error(); err != nil {
		return err
	}

	s.scene.Destroy(s.candidate.handle)
	s.candidate = nil
	s.apply(ctx, effects.ControlsEffect{State: placement.ControlsReady})
	return nil
}

// ConfirmRemoval removes the selected object from the catalog and the scene.
// A storage failure is returned and the selection is kept.
func (s *PlacementSessionImpl) ConfirmRemoval(ctx context.Context) (*primary.ConfirmRemovalResponse, error) {
	guardCtx := item.SelectionContext{HasSelection: s.selection != nil}
	if s.selection != nil {
		guardCtx.ItemID, _ = s.scene.ItemID(s.selection.handle)
	}
	if err := item.CanConfirmRemoval(guardCtx).Error(); err != nil {
		return nil, err
	}

	sel := s.selection
	resp := &primary.ConfirmRemovalResponse{ItemID: guardCtx.ItemID}
	if s.cfg.AllowSaveLoad {
		if guardCtx.ItemID == "" {
			s.logger.Error("nothing was removed from catalog", "object", sel.handle, "err", ErrRemovalIDNotFound)
		} else {
			removed, err := s.catalog.Remove(ctx, guardCtx.ItemID)
			if err != nil {
				return nil, fmt.Errorf("failed to remove item %s: %w", guardCtx.ItemID, err)
			}
			resp.Persisted = removed
		}
	}

	s.scene.Destroy(sel.handle)
	s.selection = nil
	s.apply(ctx,
		effects.SelectionControlsEffect{Visible: false},
		effects.MessageEffect{Text: placement.MsgRemoved, ClearAfter: placement.RemovedClearAfter},
	)
	return resp, nil
}

// Deselect clears the selection and restores its material.
func (s *PlacementSessionImpl) Deselect() {
	s.clearSelection(context.Background())
}

// SetMode switches the interaction mode. Leaving remove mode restores the
// selected object's material before the new mode takes effect.
func (s *PlacementSessionImpl) SetMode(mode placement.Mode) error {
	if s.closed {
		return fmt.Errorf("session is closed")
	}
	guard := placement.CanEnterMode(placement.ModeContext{
		Current:          s.mode,
		Requested:        mode,
		Tier:             s.cfg.Tier,
		HasCandidate:     s.candidate != nil,
		DetectionPending: s.request.Pending(),
	})
	if err := guard.Error(); err != nil {
		return err
	}

	ctx := context.Background()
	if mode != placement.ModeRemove {
		s.clearSelection(ctx)
	}
	s.mode = mode
	s.apply(ctx, effects.MessageEffect{Text: placement.ModeMessage(mode)})
	return nil
}

// State returns a snapshot for display and tests.
func (s *PlacementSessionImpl) State() primary.SessionState {
	st := primary.SessionState{
		Mode:               s.mode,
		Detection:          s.request.Status(),
		LastDetection:      s.request.LastOutcome(),
		Tier:               s.cfg.Tier,
		PersistenceEnabled: s.cfg.AllowSaveLoad,
	}
	if s.candidate != nil {
		st.HasCandidate = true
		st.Candidate = s.candidate.handle
		st.CandidateKind = s.candidate.kind
	}
	if s.selection != nil {
		st.HasSelection = true
		st.Selected = s.selection.handle
	}
	return st
}

// Close drops pending work and releases candidate and selection.
// Detection results arriving afterwards are discarded.
func (s *PlacementSessionImpl) Close() {
	if s.closed {
		return
	}
	ctx := context.Background()
	s.clearSelection(ctx)
	if s.candidate != nil {
		s.scene.Destroy(s.candidate.handle)
		s.candidate = nil
	}
	s.request.Abandon()
	s.drainInbox()
	s.closed = true
}

// Helper methods

func (s *PlacementSessionImpl) selectAt(ctx context.Context, point secondary.ScreenPoint) {
	hit, ok := s.scene.Raycast(point, placement.LayerFor(placement.ModeRemove))
	if !ok || hit.Object == 0 {
		s.clearSelection(ctx)
		return
	}

	if s.selection != nil && s.selection.handle == hit.Object {
		s.apply(ctx, effects.SelectionControlsEffect{Visible: true})
		return
	}

	// restore the previous object before anything else is highlighted
	s.restoreMaterial()

	kind, ok := s.scene.Kind(hit.Object)
	if !ok {
		kind = item.KindTier3
	}
	original := s.scene.Material(hit.Object)
	s.scene.SetMaterial(hit.Object, placement.HighlightFor(kind))
	s.selection = &selection{handle: hit.Object, original: original}
	s.apply(ctx, effects.SelectionControlsEffect{Visible: true})
}

func (s *PlacementSessionImpl) clearSelection(ctx context.Context) {
	if s.selection == nil {
		return
	}
	s.restoreMaterial()
	s.selection = nil
	s.apply(ctx, effects.SelectionControlsEffect{Visible: false})
}

func (s *PlacementSessionImpl) restoreMaterial() {
	if s.selection != nil {
		s.scene.SetMaterial(s.selection.handle, s.selection.original)
	}
}

func (s *PlacementSessionImpl) startDetection(ctx context.Context, point secondary.ScreenPoint) {
	if s.candidate != nil {
		return
	}
	id, err := s.request.Start(s.clock.Now(), s.cfg.Detection.Timeout())
	if err != nil {
		// single-flight: a press while a request is outstanding is a no-op
		s.logger.Debug("surface detection not started", "err", err)
		return
	}

	s.apply(ctx, detection.StartedEffects()...)
	s.logger.Debug("surface detection started", "request", id, "x", point.X, "y", point.Y, "deadline", s.request.Deadline())
	s.anchors.DetectSurface(ctx, point, func(result secondary.DetectionResult) {
		s.enqueue(detectionEvent{requestID: id, result: result})
	})
}

func (s *PlacementSessionImpl) handleDetection(ctx context.Context, ev detectionEvent) {
	if !ev.result.OK {
		if !s.request.Fail(ev.requestID) {
			s.logger.Debug("discarding late detection failure", "request", ev.requestID)
			return
		}
		s.apply(ctx, detection.FailedEffects(ev.requestID, ev.result.Err)...)
		return
	}

	if !s.request.Complete(ev.requestID) {
		s.logger.Debug("discarding late detection result", "request", ev.requestID)
		return
	}

	local := s.anchors.GpsToLocal(ev.result.Position)
	orientation := geometry.OrientationFromNormal(ev.result.Normal)
	if s.candidate == nil {
		h, err := s.scene.Instantiate(item.KindTier1, local, orientation)
		if err != nil {
			s.logger.Error("failed to instantiate candidate", "kind", item.KindTier1.String(), "err", err)
			s.apply(ctx, detection.FailedEffects(ev.requestID, err)...)
			return
		}
		s.candidate = &candidate{handle: h, kind: item.KindTier1}
	} else {
		s.scene.SetPose(s.candidate.handle, local, orientation)
	}
	s.apply(ctx, detection.CompletedEffects()...)
}

func (s *PlacementSessionImpl) trackSurface(ctx context.Context, point secondary.ScreenPoint) {
	kind, ok := placement.KindFor(s.mode)
	if !ok {
		return
	}
	hit, ok := s.scene.Raycast(point, placement.LayerFor(s.mode))
	if !ok {
		return
	}

	orientation := geometry.OrientationFromNormal(hit.Normal)
	if s.candidate == nil {
		h, err := s.scene.Instantiate(kind, hit.Point, orientation)
		if err != nil {
			s.logger.Error("failed to instantiate candidate", "kind", kind.String(), "err", err)
			return
		}
		s.candidate = &candidate{handle: h, kind: kind}
		s.apply(ctx,
			effects.ControlsEffect{State: placement.ControlsPlacing},
			effects.ClearMessageEffect{},
		)
		return
	}
	s.scene.SetPose(s.candidate.handle, hit.Point, orientation)
}

func (s *PlacementSessionImpl) enqueue(ev detectionEvent) {
	s.inboxMu.Lock()
	defer s.inboxMu.Unlock()
	s.inbox = append(s.inbox, ev)
}

func (s *PlacementSessionImpl) drainInbox() []detectionEvent {
	s.inboxMu.Lock()
	defer s.inboxMu.Unlock()
	evs := s.inbox
	s.inbox = nil
	return evs
}

func (s *PlacementSessionImpl) apply(ctx context.Context, effs ...effects.Effect) {
	if err := s.executor.Execute(ctx, effs); err != nil {
		s.logger.Error("failed to apply effects", "err", err)
	}
}

// Ensure PlacementSessionImpl implements the interface.
var _ primary.PlacementSession = (*PlacementSessionImpl)(nil)
