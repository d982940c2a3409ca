package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shouni/ad-genius/pkg/domain"
	"github.com/shouni/ad-genius/pkg/gallery"
	"github.com/shouni/ad-genius/pkg/generator"
)

// ErrGenerationInFlight は別の生成がまだ終わっていないことを表します。
var ErrGenerationInFlight = errors.New("generation already in progress")

// Controller は編集中のフォーム、生成状態、ギャラリーを1つにまとめて所有します。
type Controller struct {
	generator generator.ImageGenerator
	gallery   *gallery.Store
	newID     func() string
	now       func() time.Time
	observers []func(domain.GenerationState)

	mu    sync.Mutex
	state domain.GenerationState
	draft domain.AdConfig
}

// Option は Controller の任意設定です。
type Option func(*Controller)

// WithClock は CreatedAt に使う時計を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithIDGenerator は GeneratedAd の id 生成を差し替えます。
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) {
		c.newID = newID
	}
}

// WithStateObserver は状態が変わるたびに呼ばれる関数を登録します。
func WithStateObserver(fn func(domain.GenerationState)) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, fn)
	}
}

// New は依存関係を注入して Controller を初期化します。store が nil なら空のギャラリーを作ります。
func New(gen generator.ImageGenerator, store *gallery.Store, opts ...Option) (*Controller, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator (ImageGenerator) is required")
	}
	if store == nil {
		store = gallery.New()
	}
	c := &Controller{
		generator: gen,
		gallery:   store,
		newID:     uuid.NewString,
		now:       time.Now,
		draft:     domain.DefaultAdConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate は cfg の説明文から背景画像を生成し、成功すればギャラリーの先頭に追加します。
//
// 説明文が空なら domain.ErrDescriptionRequired、生成中なら ErrGenerationInFlight を返し、
// 状態には触れません。生成の失敗は状態の Error に記録したうえで *domain.GenerationError として返します。
// IsLoading はどの経路で抜けても必ず false に戻ります。
func (c *Controller) Generate(ctx context.Context, cfg domain.AdConfig) (*domain.GeneratedAd, error) {
	if !cfg.CanGenerate() {
		return nil, domain.ErrDescriptionRequired
	}
	if !c.begin() {
		return nil, ErrGenerationInFlight
	}
	defer c.finish()

	imageURL, err := c.generator.GenerateImage(ctx, cfg.Description, cfg.AspectRatio)
	if err == nil && imageURL == "" {
		err = domain.NewGenerationError("No image was generated.", nil)
	}
	if err != nil {
		msg := domain.MessageOf(err)
		c.fail(msg)
		slog.WarnContext(ctx, "広告画像の生成に失敗しました", "aspect_ratio", cfg.AspectRatio, "error", msg)
		var genErr *domain.GenerationError
		if errors.As(err, &genErr) {
			return nil, genErr
		}
		return nil, domain.NewGenerationError(msg, err)
	}

	ad := domain.GeneratedAd{
		ID:        c.newID(),
		ImageURL:  imageURL,
		Config:    cfg,
		CreatedAt: c.now(),
	}
	c.gallery.InsertFront(ad)

	slog.InfoContext(ctx, "広告を生成しました", "id", ad.ID, "aspect_ratio", cfg.AspectRatio, "gallery_size", c.gallery.Len())
	return &ad, nil
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	if c.state.IsLoading {
		c.mu.Unlock()
		return false
	}
	c.state = domain.GenerationState{IsLoading: true}
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)
	return true
}

func (c *Controller) fail(msg string) {
	c.mu.Lock()
	c.state.Error = msg
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.state.IsLoading = false
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)
}

func (c *Controller) notify(state domain.GenerationState) {
	for _, fn := range c.observers {
		fn(state)
	}
}

// State は現在の生成状態のコピーを返します。
func (c *Controller) State() domain.GenerationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Draft は編集中のフォームの値を返します。
func (c *Controller) Draft() domain.AdConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft は編集中のフォームを cfg に置き換えます。
func (c *Controller) SetDraft(cfg domain.AdConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = cfg
}

// PatchDraft は編集中のフォームのうち patch にあるフィールドだけをまとめて差し替え、新しい値を返します。
// 未知のフィールドや下書きとして不正な値が1つでもあれば、下書きは変えずにエラーを返します。
func (c *Controller) PatchDraft(patch map[domain.Field]string) (domain.AdConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.draft
	for field, value := range patch {
		var err error
		if next, err = domain.WithField(next, field, value); err != nil {
			return c.draft, err
		}
	}
	if err := next.ValidateDraft(); err != nil {
		return c.draft, err
	}
	c.draft = next
	return next, nil
}

// Gallery は所有しているギャラリーを返します。
func (c *Controller) Gallery() *gallery.Store {
	return c.gallery
}

// Delete はギャラリーから id を削除します。存在しない id は何もしません。
func (c *Controller) Delete(id string) {
	if c.gallery.Remove(id) {
		slog.Info("広告を削除しました", "id", id)
	}
}
