// Package reconcile applies the items of a hand-over record to the sheets of
// an inventory workbook.
package reconcile

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/a3tai/mcp-inventory-sync/internal/extraction"
	"github.com/a3tai/mcp-inventory-sync/internal/grid"
	"github.com/a3tai/mcp-inventory-sync/internal/inventory"
)

// Overflow notes and the responsible-party placeholder written to the sheets
const (
	NoteNoSerial        = "Auto-registro (SIN SERIE)"
	NoteSerialNotFound  = "Auto-registro (SERIE NO ENCONTRADA)"
	ResponsibleNotFound = "SIN RESPONSABLE"
)

// Input is the material of one run. Collections are mutated in place and
// their order is the order in which they are searched.
type Input struct {
	Document    grid.Document
	SourcePath  string
	Collections []*inventory.Collection
}

// Engine runs reconciliations
type Engine struct {
	options  extraction.Options
	observer Observer
	newRunID func() string
}

// Option configures an Engine
type Option func(*Engine)

// WithExtractionOptions sets the options passed to the extractors
func WithExtractionOptions(opts extraction.Options) Option {
	return func(e *Engine) {
		e.options = opts
	}
}

// WithObserver adds a progress observer
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o == nil {
			return
		}
		if m, ok := e.observer.(multiObserver); ok {
			e.observer = append(m, o)
			return
		}
		e.observer = multiObserver{o}
	}
}

// NewEngine creates an engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		options:  extraction.DefaultOptions(),
		observer: nopObserver{},
		newRunID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// target is an indexed collection with its schema
type target struct {
	index  *inventory.SerialIndex
	report int
}

// pending is an item waiting for the overflow sheet
type pending struct {
	item extraction.ItemRecord
	kind Outcome
	pos  int
}

// Run extracts metadata and items from the document, updates every
// collection row whose serial matches an item and appends the rest to the
// overflow sheet. Only an unreadable document or a target set without any
// indexable collection is an error; everything else degrades to placeholders
// and warnings.
func (e *Engine) Run(in Input) (*Summary, error) {
	if in.Document == nil {
		return nil, NewError(ErrorTypeSourceUnreadable, "no source document", nil).WithPath(in.SourcePath)
	}
	if len(in.Collections) == 0 {
		return nil, NewError(ErrorTypeTargetUnreadable, "no target collections", nil)
	}

	sum := &Summary{
		RunID:         e.newRunID(),
		MatchedValue:  decimal.Zero,
		OverflowValue: decimal.Zero,
	}
	emit := func(ev Event) {
		ev.RunID = sum.RunID
		e.observer.Observe(ev)
	}
	emit(Event{Kind: EventRunStarted, Count: len(in.Collections), Detail: in.SourcePath})

	meta := extraction.NewMetadataExtractor(e.options).Extract(in.Document)
	sum.Metadata = meta
	for _, f := range meta.Missing() {
		sum.warn(ErrorTypeFieldExtractionMiss, string(f))
		emit(Event{Kind: EventFieldMissing, Detail: string(f)})
	}

	table, err := extraction.NewItemTableReader(e.options).Read(in.Document)
	if err != nil {
		return nil, NewError(ErrorTypeSourceUnreadable, "reading item table", err).WithPath(in.SourcePath)
	}

	sum.Responsible, sum.ResponsibleSource = resolveResponsible(meta, inventory.BuildIdentityMap(in.Collections))

	targets := e.indexTargets(in.Collections, sum, emit)
	if len(targets) == 0 {
		return nil, NewError(ErrorTypeTargetUnreadable, "no collection exposes a serial column", nil)
	}

	var queue []pending
	sum.Items = len(table.Items)
	for _, item := range table.Items {
		res := ItemResult{Row: item.Row, Description: item.Description, SerialKey: item.SerialKey()}

		if res.SerialKey == "" {
			res.Outcome = OutcomeNoSerial
			sum.NoSerial++
			sum.warn(ErrorTypeMissingSerial, fmt.Sprintf("row %d", item.Row))
		} else if t, rows := lookup(targets, res.SerialKey); t != nil {
			applyUpdates(t, rows, meta, sum.Responsible, item.Observation)
			res.Outcome = OutcomeMatched
			res.Collection = t.index.Collection.Name
			res.RowsUpdated = len(rows)
			sum.Collections[t.report].Matched++
			sum.Collections[t.report].RowsUpdated += len(rows)
			sum.Matched++
			sum.RowsUpdated += len(rows)
			addAmount(&sum.MatchedValue, item)
			emit(Event{Kind: EventItemMatched, Collection: res.Collection, Serial: res.SerialKey, Row: item.Row, Count: len(rows)})
		} else {
			res.Outcome = OutcomeNotFound
			sum.NotFound++
			sum.warn(ErrorTypeNoMatchingCollection, fmt.Sprintf("row %d serial %s", item.Row, res.SerialKey))
		}

		if res.Outcome != OutcomeMatched {
			queue = append(queue, pending{item: item, kind: res.Outcome, pos: len(sum.Results)})
			addAmount(&sum.OverflowValue, item)
			emit(Event{Kind: EventItemPending, Serial: res.SerialKey, Row: item.Row, Detail: string(res.Outcome)})
		}
		sum.Results = append(sum.Results, res)
	}
	sum.Overflow = len(queue)

	e.flushOverflow(in.Collections, queue, meta, sum, emit)

	emit(Event{Kind: EventRunFinished, Count: sum.Matched, Detail: fmt.Sprintf("matched=%d overflow=%d", sum.Matched, sum.Overflow)})
	return sum, nil
}

func (e *Engine) indexTargets(cols []*inventory.Collection, sum *Summary, emit func(Event)) []target {
	var targets []target
	for _, c := range cols {
		if inventory.IsOverflowName(c.Name) {
			continue
		}
		schema := inventory.DetectSchema(c)
		sum.Collections = append(sum.Collections, CollectionReport{Name: c.Name, Category: schema.Category})
		if !schema.Indexable() {
			emit(Event{Kind: EventCollectionSkipped, Collection: c.Name, Detail: "no serial column"})
			continue
		}
		ix := inventory.BuildSerialIndex(c, schema)
		report := len(sum.Collections) - 1
		sum.Collections[report].Indexed = true
		sum.Collections[report].SerialKeys = ix.Keys()
		targets = append(targets, target{index: ix, report: report})
		emit(Event{Kind: EventCollectionIndexed, Collection: c.Name, Count: ix.Keys()})
	}
	return targets
}

// lookup returns the first target, in collection order, holding key
func lookup(targets []target, key string) (*target, []inventory.RowID) {
	for i := range targets {
		if rows := targets[i].index.Lookup(key); len(rows) > 0 {
			return &targets[i], rows
		}
	}
	return nil, nil
}

func applyUpdates(t *target, rows []inventory.RowID, meta extraction.Metadata, responsible, observation string) {
	c := t.index.Collection
	schema := t.index.Schema
	set := func(role inventory.Role, v string) {
		if col, ok := schema.Column(role); ok {
			for _, id := range rows {
				c.Set(id, col, grid.Text(v))
			}
		}
	}

	set(inventory.RoleResponsible, responsible)
	if meta.LocationCode != "" {
		set(inventory.RoleLocation, meta.LocationCode)
	}
	set(inventory.RoleDocumentLabel, meta.DocumentLabel)
	if meta.HasDate() {
		set(inventory.RoleDate, meta.DateString())
	}
	if observation != "" {
		set(inventory.RoleUnitObservation, observation)
	}
}

func (e *Engine) flushOverflow(cols []*inventory.Collection, queue []pending, meta extraction.Metadata, sum *Summary, emit func(Event)) {
	if len(queue) == 0 {
		return
	}

	overflow := inventory.FindOverflow(cols)
	if overflow == nil {
		sum.warn(ErrorTypeNoOverflowTarget, fmt.Sprintf("%d items not persisted", len(queue)))
		emit(Event{Kind: EventOverflowMissing, Count: len(queue)})
		return
	}

	rows := make([]inventory.OverflowRow, len(queue))
	for i, p := range queue {
		note := NoteSerialNotFound
		if p.kind == OutcomeNoSerial {
			note = NoteNoSerial
		}
		rows[i] = inventory.OverflowRow{
			Description:     p.item.Description,
			Description2:    p.item.Description2,
			Serial:          p.item.SerialRaw,
			InventoryCode:   p.item.InventoryCode,
			Value:           p.item.AcquisitionValue,
			Quantity:        p.item.Quantity,
			UnitObservation: p.item.Observation,
			InternalNote:    note,
			DocumentLabel:   meta.DocumentLabel,
			Date:            meta.DateString(),
			Responsible:     sum.Responsible,
		}
	}

	seqs := overflow.AppendOverflow(rows)
	for i, p := range queue {
		sum.Results[p.pos].Collection = overflow.Name
		sum.Results[p.pos].Sequence = seqs[i]
	}
	sum.OverflowCollection = overflow.Name
	sum.Sequences = seqs
	emit(Event{Kind: EventOverflowAppended, Collection: overflow.Name, Count: len(seqs)})
}

// resolveResponsible prefers the identity sheet label, then the name read
// from the document, then the placeholder.
func resolveResponsible(meta extraction.Metadata, ids inventory.IdentityMap) (string, ResponsibleSource) {
	if label, ok := ids.Resolve(meta.RecipientID); ok {
		return label, ResponsibleFromIdentityMap
	}
	if meta.RecipientName != "" {
		return meta.RecipientName, ResponsibleFromDocument
	}
	return ResponsibleNotFound, ResponsiblePlaceholder
}

func addAmount(total *decimal.Decimal, item extraction.ItemRecord) {
	if item.Amount.Valid {
		*total = total.Add(item.Amount.Decimal)
	}
}
