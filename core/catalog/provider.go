package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"soundcatalog/logger"
	"soundcatalog/model"
)

// State Provider 生命周期状态
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateInitialized
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// DefaultFetchTimeout 未配置时单次加载的最长时间
const DefaultFetchTimeout = 20 * time.Second

// Options Provider 构造参数
type Options struct {
	APIKey       string        // 参与曲目ID派生
	FetchTimeout time.Duration // 超时后按加载失败处理
	Favorites    *Favorites    // 为 nil 时使用纯内存收藏
}

// IngestReport 一次导入的统计
type IngestReport struct {
	Received   int // 原始记录数
	Stored     int // 去重后的曲目数
	Collisions int // 因ID冲突被覆盖的记录数
	Malformed  int // 存在字段回退为默认值的记录数
}

// Status 对外展示的运行状态
type Status struct {
	State     string `json:"state"`
	Tracks    int    `json:"tracks"`
	Genres    int    `json:"genres"`
	Favorites int    `json:"favorites"`
	Fetching  bool   `json:"fetching"`
}

type waiter struct {
	fn      ReadyFunc
	refresh bool
}

// Provider 驱动 Loader 加载目录，维护曲目、流派索引和收藏，并提供只读查询。
// 所有查询都是同步的，不会因网络阻塞；目录未就绪时返回空结果。
type Provider struct {
	loader       Loader
	apiKey       string
	fetchTimeout time.Duration

	state     atomic.Int32
	store     *Store
	favorites *Favorites

	// writeMu 串行化导入和更新
	writeMu sync.Mutex

	// waitMu 保护以下字段，并与 inflight 一起保证同一时间最多一次加载
	waitMu        sync.Mutex
	inflight      atomic.Bool
	inflightQuery string
	waiters       []waiter
	// 加载进行中时以不同关键词发起的刷新，在当前加载结束后接着执行
	pendingQuery string
	pending      []waiter
	closed       bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProvider 创建处于未初始化状态的 Provider
func NewProvider(loader Loader, opts Options) *Provider {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Favorites == nil {
		opts.Favorites = NewFavorites(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Provider{
		loader:       loader,
		apiKey:       opts.APIKey,
		fetchTimeout: opts.FetchTimeout,
		store:        NewStore(),
		favorites:    opts.Favorites,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (p *Provider) State() State {
	return State(p.state.Load())
}

func (p *Provider) IsInitialized() bool {
	return p.State() == StateInitialized
}

// Fetching reports whether a loader call is in flight.
func (p *Provider) Fetching() bool {
	return p.inflight.Load()
}

// EnsureReady 目录已就绪时同步回调 true；否则发起（或加入正在进行的）加载，
// 完成后在加载 goroutine 中回调。onReady 可以为 nil。
func (p *Provider) EnsureReady(query string, onReady ReadyFunc) {
	if p.IsInitialized() {
		notify(onReady, true)
		return
	}
	p.request(query, onReady, false)
}

// Refresh 用新的关键词重新加载。加载期间旧目录仍然可读；
// 失败时保留旧目录并回调 false。
func (p *Provider) Refresh(query string, onReady ReadyFunc) {
	p.request(query, onReady, true)
}

func (p *Provider) request(query string, onReady ReadyFunc, refresh bool) {
	p.waitMu.Lock()
	if p.closed {
		p.waitMu.Unlock()
		notify(onReady, false)
		return
	}
	if !refresh && p.IsInitialized() {
		p.waitMu.Unlock()
		notify(onReady, true)
		return
	}

	w := waiter{fn: onReady, refresh: refresh}
	if p.inflight.Load() && refresh && query != p.inflightQuery {
		var superseded []waiter
		if len(p.pending) > 0 && p.pendingQuery != query {
			superseded = p.pending
			p.pending = nil
		}
		p.pendingQuery = query
		p.pending = append(p.pending, w)
		p.waitMu.Unlock()

		for _, old := range superseded {
			notify(old.fn, false)
		}
		return
	}
	p.waiters = append(p.waiters, w)

	start := p.inflight.CompareAndSwap(false, true)
	if start {
		p.inflightQuery = query
		p.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitializing))
		p.wg.Add(1)
	}
	p.waitMu.Unlock()

	if start {
		go p.fetch(query)
	}
}

type fetchResult struct {
	raws []model.RawRecord
	err  error
}

// load 调用 Loader，超时或关闭时立即返回，不再等待不响应 ctx 的 Loader；
// 迟到的结果被丢弃。
func (p *Provider) load(query string) ([]model.RawRecord, error) {
	ctx, cancel := context.WithTimeout(p.ctx, p.fetchTimeout)
	defer cancel()

	resCh := make(chan fetchResult, 1)
	go func() {
		raws, err := p.loader.Fetch(ctx, query)
		resCh <- fetchResult{raws: raws, err: err}
	}()

	var res fetchResult
	select {
	case res = <-resCh:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	if res.err != nil && p.ctx.Err() != nil {
		res.err = multierr.Append(ErrClosed, res.err)
	}
	return res.raws, res.err
}

func (p *Provider) fetch(query string) {
	defer p.wg.Done()

	fetchID := uuid.NewString()
	started := time.Now()
	logger.Info("[Provider] 开始加载目录",
		logger.String("fetchID", fetchID),
		logger.String("query", query),
		logger.Duration("timeout", p.fetchTimeout))

	raws, err := p.load(query)
	if err == nil {
		var report IngestReport
		report, err = p.Ingest(raws)
		if err == nil {
			logger.Info("[Provider] 目录加载完成",
				logger.String("fetchID", fetchID),
				logger.Int("received", report.Received),
				logger.Int("stored", report.Stored),
				logger.Int("collisions", report.Collisions),
				logger.Int("malformed", report.Malformed),
				logger.Duration("elapsed", time.Since(started)))
		}
	}
	if err != nil {
		err = &FetchError{Query: query, Err: err}
		logger.Error("[Provider] 目录加载失败",
			logger.String("fetchID", fetchID),
			logger.Duration("elapsed", time.Since(started)),
			logger.ErrorField(err))
	}
	p.finish(err)
}

// finish 处理失败回退并通知所有等待者；有挂起的刷新时紧接着为它发起下一次加载
func (p *Provider) finish(err error) {
	if err != nil {
		p.state.CompareAndSwap(int32(StateInitializing), int32(StateUninitialized))
	}

	p.waitMu.Lock()
	waiters := p.waiters
	p.waiters = nil

	var next string
	var dropped []waiter
	followUp := len(p.pending) > 0 && !p.closed
	if followUp {
		next = p.pendingQuery
		p.waiters = p.pending
		p.inflightQuery = next
		p.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitializing))
		p.wg.Add(1)
	} else {
		dropped = p.pending
		p.inflight.Store(false)
		p.inflightQuery = ""
	}
	p.pending = nil
	p.pendingQuery = ""
	p.waitMu.Unlock()

	initialized := p.IsInitialized()
	for _, w := range waiters {
		if w.refresh {
			notify(w.fn, err == nil && initialized)
		} else {
			notify(w.fn, initialized)
		}
	}
	for _, w := range dropped {
		notify(w.fn, false)
	}

	if followUp {
		go p.fetch(next)
	}
}

func notify(fn ReadyFunc, success bool) {
	if fn != nil {
		fn(success)
	}
}

// Ingest 把一批原始记录构建为新的目录快照并原子发布，成功后状态为已初始化。
// 空批次不会发布任何内容。单条记录的字段错误只计数，不影响整批。
func (p *Provider) Ingest(raws []model.RawRecord) (IngestReport, error) {
	report := IngestReport{Received: len(raws)}
	if len(raws) == 0 {
		return report, ErrEmptyBatch
	}

	tracks := make([]model.Track, 0, len(raws))
	for i, raw := range raws {
		t, err := BuildTrack(raw, p.apiKey)
		if err != nil {
			report.Malformed++
			var fields []string
			for _, e := range multierr.Errors(err) {
				var mf *MalformedRecordError
				if errors.As(e, &mf) {
					fields = append(fields, mf.Field)
				}
			}
			logger.Warn("[Provider] 记录字段无法解析，已使用默认值",
				logger.Int("index", i),
				logger.String("title", t.Title),
				logger.Strings("fields", fields))
		}
		tracks = append(tracks, t)
	}

	snap, collisions := buildSnapshot(tracks)
	report.Stored = len(snap.order)
	report.Collisions = collisions
	if collisions > 0 {
		logger.Warn("[Provider] 曲目ID冲突，后写入的记录覆盖了先前的记录",
			logger.Int("collisions", collisions))
	}

	p.writeMu.Lock()
	p.store.install(snap)
	p.state.Store(int32(StateInitialized))
	p.writeMu.Unlock()

	return report, nil
}

// UpdateTrack 替换已存在的曲目。新值按导入规则规整，流派变化时重建流派索引。
// ID 不存在时返回 false。
func (p *Provider) UpdateTrack(id string, t model.Track) bool {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	_, ok := p.store.replace(id, Canonicalize(t))
	return ok
}

// Close 取消正在进行的加载并等待其结束，之后的请求都回调 false。
// Loader 需要响应 ctx 取消，否则 Close 会等到它自行返回。
func (p *Provider) Close() {
	p.waitMu.Lock()
	if p.closed {
		p.waitMu.Unlock()
		return
	}
	p.closed = true
	p.waitMu.Unlock()

	p.cancel()
	p.wg.Wait()
}

// Genres 已排序的流派列表
func (p *Provider) Genres() []string {
	if !p.IsInitialized() {
		return []string{}
	}
	return p.store.Genres().Genres()
}

// TracksByGenre 某流派下的曲目
func (p *Provider) TracksByGenre(genre string) []model.Track {
	if !p.IsInitialized() {
		return []model.Track{}
	}
	return p.store.Genres().Tracks(genre)
}

// TrackByID 按目录ID查找曲目
func (p *Provider) TrackByID(id string) (model.Track, bool) {
	return p.store.Get(id)
}

// Tracks 按导入顺序返回全部曲目
func (p *Provider) Tracks() []model.Track {
	if !p.IsInitialized() {
		return []model.Track{}
	}
	return p.store.All()
}

func (p *Provider) SetFavorite(id string, favorite bool) {
	p.favorites.Set(id, favorite)
}

func (p *Provider) IsFavorite(id string) bool {
	return p.favorites.Contains(id)
}

// Favorites 已收藏的曲目ID
func (p *Provider) Favorites() []string {
	return p.favorites.IDs()
}

func (p *Provider) Status() Status {
	st := Status{
		State:     p.State().String(),
		Favorites: len(p.favorites.IDs()),
		Fetching:  p.Fetching(),
	}
	if p.IsInitialized() {
		st.Tracks = p.store.Len()
		st.Genres = p.store.Genres().Len()
	}
	return st
}
