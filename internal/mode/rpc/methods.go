// ABOUTME: Handler implementations for RPC methods (parse, click, expose, tray, settings, regions)
// ABOUTME: Dispatches requests to appropriate handlers with input validation

package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/mauromedda/statusbar-go/internal/bar"
	"github.com/mauromedda/statusbar-go/internal/dispatch"
	"github.com/mauromedda/statusbar-go/internal/markup"
)

// HandlerFunc processes an RPC request's params and returns a Response.
type HandlerFunc func(params json.RawMessage) Response

// Router dispatches RPC requests to registered handlers by method name.
type Router struct {
	handlers map[string]HandlerFunc
}

// NewRouter creates a Router with an empty handler registry.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

// Register associates a method name with a handler function.
func (r *Router) Register(method string, handler HandlerFunc) {
	r.handlers[method] = handler
}

// Handle dispatches a request to the registered handler, or returns
// a method-not-found error if no handler is registered.
func (r *Router) Handle(req Request) Response {
	h, ok := r.handlers[req.Method]
	if !ok {
		return Response{
			ID:    req.ID,
			Error: NewMethodNotFoundError(req.Method),
		}
	}

	resp := h(req.Params)
	resp.ID = req.ID
	return resp
}

// Deps holds the function dependencies that handlers call into.
type Deps struct {
	Parse      func(text string, force bool) []error
	Click      func(x, y int, btn markup.Button) (string, bool)
	Expose     func()
	TrayReport func(slots int) int
	Settings   func() SettingsResult
	Regions    func() []RegionInfo
}

// RegisterHandlers wires all method handlers into the given router.
func RegisterHandlers(r *Router, d *Deps) {
	r.Register(MethodParse, handleParse(d))
	r.Register(MethodClick, handleClick(d))
	r.Register(MethodExpose, handleExpose(d))
	r.Register(MethodTrayReport, handleTrayReport(d))
	r.Register(MethodSettings, handleSettings(d))
	r.Register(MethodRegions, handleRegions(d))
}

func decode(params json.RawMessage, v any) *Error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return NewInvalidParamsError(err.Error())
	}
	return nil
}

func handleParse(d *Deps) HandlerFunc {
	return func(params json.RawMessage) Response {
		var p ParseParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		errs := d.Parse(p.Text, p.Force)
		msgs := make([]string, 0, len(errs))
		for _, err := range errs {
			msgs = append(msgs, err.Error())
		}
		return Response{Result: ParseResult{Errors: msgs}}
	}
}

func handleClick(d *Deps) HandlerFunc {
	return func(params json.RawMessage) Response {
		var p ClickParams
		if len(params) == 0 {
			return Response{Error: NewInvalidParamsError("missing params")}
		}
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		btn := markup.Button(p.Button)
		if btn == markup.ButtonNone {
			btn = markup.ButtonLeft
		}
		if !btn.Valid() {
			return Response{Error: NewInvalidButtonError(p.Button)}
		}
		cmd, ok := d.Click(p.X, p.Y, btn)
		return Response{Result: ClickResult{Dispatched: ok, Command: cmd}}
	}
}

func handleExpose(d *Deps) HandlerFunc {
	return func(_ json.RawMessage) Response {
		d.Expose()
		return Response{Result: ExposeResult{Flushed: true}}
	}
}

func handleTrayReport(d *Deps) HandlerFunc {
	return func(params json.RawMessage) Response {
		var p TrayParams
		if e := decode(params, &p); e != nil {
			return Response{Error: e}
		}
		if p.Slots < 0 {
			return Response{Error: NewInvalidParamsError(fmt.Sprintf("slots must be >= 0, got %d", p.Slots))}
		}
		return Response{Result: TrayResult{Slots: d.TrayReport(p.Slots)}}
	}
}

func handleSettings(d *Deps) HandlerFunc {
	return func(_ json.RawMessage) Response {
		return Response{Result: d.Settings()}
	}
}

func handleRegions(d *Deps) HandlerFunc {
	return func(_ json.RawMessage) Response {
		regions := d.Regions()
		if regions == nil {
			regions = []RegionInfo{}
		}
		return Response{Result: RegionsResult{Regions: regions}}
	}
}

// BarDeps builds handler dependencies backed by the bar current returns,
// so a reloaded bar is picked up by the next request. Bars must be created
// with c as their dispatcher.
func BarDeps(current func() *bar.Bar, c *dispatch.Capture) *Deps {
	return &Deps{
		Parse: func(text string, force bool) []error {
			return current().Parse(text, force)
		},
		Click: func(x, y int, btn markup.Button) (string, bool) {
			b := current()
			c.Take()
			if !b.HandleButtonPress(x, y, btn) {
				return "", false
			}
			return c.Take(), true
		},
		Expose: func() { current().HandleExpose() },
		TrayReport: func(slots int) int {
			b := current()
			b.OnTrayReport(slots)
			return b.Tray().Slots
		},
		Settings: func() SettingsResult {
			b := current()
			s, t := b.Settings(), b.Tray()
			return SettingsResult{
				Name:    s.Name,
				Monitor: s.Monitor.Name,
				WMName:  s.WMName,
				X:       s.X,
				Y:       s.Y,
				Width:   s.Width,
				Height:  s.Height,
				Bottom:  s.Bottom,
				Tray: TrayInfo{
					Position: t.Position.String(),
					Slots:    t.Slots,
					Width:    t.Width,
					Spacing:  t.Spacing,
				},
			}
		},
		Regions: func() []RegionInfo {
			regions := current().Regions()
			out := make([]RegionInfo, 0, len(regions))
			for _, r := range regions {
				out = append(out, RegionInfo{
					Button:  int(r.Button),
					Zone:    r.Zone.String(),
					Command: r.Command,
					Start:   r.StartX,
					End:     r.EndX,
					Open:    r.Open,
				})
			}
			return out
		},
	}
}
