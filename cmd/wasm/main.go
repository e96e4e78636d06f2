//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"syscall/js"

	"github.com/inamate/artboard/internal/checkpoint"
	"github.com/inamate/artboard/internal/config"
	"github.com/inamate/artboard/internal/document"
	"github.com/inamate/artboard/internal/engine"
	"github.com/inamate/artboard/internal/export"
	"github.com/inamate/artboard/internal/storage/local"
)

const appName = "artboard"

var (
	editor   *engine.Editor
	settings config.Settings
	store    *local.Store
	writer   *checkpoint.Writer
	stopSave context.CancelFunc
	boardID  string

	projection = &jsProjection{}
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(consoleWriter{}, &slog.HandlerOptions{Level: slog.LevelInfo})))

	settings = config.DefaultSettings()
	editor = engine.NewEditor(settings, engine.WithProjection(projection))

	var err error
	store, err = local.Open(appName)
	if err != nil {
		slog.Error("open local storage, edits will not persist", "error", err)
	}

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	api.Set("open", js.FuncOf(open))
	api.Set("save", js.FuncOf(save))
	api.Set("onEffect", js.FuncOf(onEffect))
	api.Set("apply", js.FuncOf(apply))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("keyDelete", js.FuncOf(keyDelete))
	api.Set("keyArrow", js.FuncOf(keyArrow))
	api.Set("setTool", js.FuncOf(setTool))
	api.Set("setViewport", js.FuncOf(setViewport))
	api.Set("editProperties", js.FuncOf(editProperties))
	api.Set("moveUp", js.FuncOf(moveUp))
	api.Set("moveDown", js.FuncOf(moveDown))
	api.Set("deleteElement", js.FuncOf(deleteElement))
	api.Set("select", js.FuncOf(selectElement))

	// --- Queries (frontend ← editor) ---
	api.Set("render", js.FuncOf(render))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	api.Set("getElements", js.FuncOf(getElements))
	api.Set("getLayers", js.FuncOf(getLayers))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getTool", js.FuncOf(getTool))
	api.Set("getMode", js.FuncOf(getMode))
	api.Set("getSettings", js.FuncOf(getSettings))
	api.Set("exportJSON", js.FuncOf(exportJSON))
	api.Set("exportHTML", js.FuncOf(exportHTML))

	js.Global().Set("artboardEditor", api)
	js.Global().Set("artboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// jsProjection forwards each editor notification to the registered
// callback as a JSON-encoded effect.
type jsProjection struct {
	callback js.Value
}

func (p *jsProjection) ElementChanged(el document.Element) {
	p.emit(engine.Effect{Kind: engine.EffectElementChanged, Element: &el})
}

func (p *jsProjection) SceneRebuilt(elements []document.Element) {
	p.emit(engine.Effect{Kind: engine.EffectSceneRebuilt, Elements: elements})
}

func (p *jsProjection) SelectionChanged(id string) {
	p.emit(engine.Effect{Kind: engine.EffectSelectionChanged, Selected: id})
}

func (p *jsProjection) ToolChanged(tool engine.Tool) {
	p.emit(engine.Effect{Kind: engine.EffectToolChanged, Tool: tool})
}

func (p *jsProjection) emit(e engine.Effect) {
	if p.callback.Type() != js.TypeFunction {
		return
	}
	p.callback.Invoke(toJSON(e))
}

type consoleWriter struct{}

func (consoleWriter) Write(b []byte) (int, error) {
	js.Global().Get("console").Call("log", string(bytes.TrimRight(b, "\n")))
	return len(b), nil
}

// --- Command Handlers ---

// open loads a board from local storage and makes it the edited board.
func open(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return errorResult("missing board id")
	}

	if writer != nil {
		stopSave()
		<-writer.Done()
	}

	boardID = args[0].String()
	opts := []engine.Option{engine.WithProjection(projection)}
	if store != nil {
		writer = checkpoint.New(store, boardID, slog.Default())
		ctx, cancel := context.WithCancel(context.Background())
		stopSave = cancel
		go writer.Run(ctx)
		opts = append(opts, engine.WithCheckpointer(writer))
	}

	editor = engine.NewEditor(settings, opts...)
	if store != nil {
		editor.Load(context.Background(), store, boardID)
	}
	return okResult()
}

func save(this js.Value, args []js.Value) interface{} {
	if writer == nil {
		return errorResult("no board open")
	}
	if err := writer.Flush(context.Background()); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

func onEffect(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		projection.callback = js.Undefined()
		return nil
	}
	projection.callback = args[0]
	return nil
}

// apply dispatches a JSON-encoded event, the same form the websocket
// session accepts.
func apply(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing event JSON")
	}
	var ev engine.Event
	if err := json.Unmarshal([]byte(args[0].String()), &ev); err != nil {
		return errorResult(err.Error())
	}
	if err := editor.Apply(ev); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	target := engine.AutoTarget()
	if len(args) > 2 && args[2].Type() == js.TypeString {
		if err := json.Unmarshal([]byte(args[2].String()), &target); err != nil {
			return errorResult(err.Error())
		}
	}
	editor.PointerDown(args[0].Float(), args[1].Float(), target)
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.PointerMove(args[0].Float(), args[1].Float())
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	editor.PointerUp()
	return nil
}

func keyDelete(this js.Value, args []js.Value) interface{} {
	editor.KeyDelete()
	return nil
}

func keyArrow(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	step := 0.0
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		step = args[1].Float()
	}
	editor.KeyArrow(engine.Direction(args[0].String()), step)
	return nil
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	editor.SetTool(engine.Tool(args[0].String()))
	return nil
}

func setViewport(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.SetViewport(args[0].Float(), args[1].Float())
	return nil
}

func editProperties(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("missing element id or patch JSON")
	}
	var patch document.Patch
	if err := json.Unmarshal([]byte(args[1].String()), &patch); err != nil {
		return errorResult(err.Error())
	}
	editor.EditProperties(args[0].String(), patch)
	return okResult()
}

func moveUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	editor.MoveUp(args[0].String())
	return nil
}

func moveDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	editor.MoveDown(args[0].String())
	return nil
}

func deleteElement(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	editor.DeleteElement(args[0].String())
	return nil
}

func selectElement(this js.Value, args []js.Value) interface{} {
	id := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		id = args[0].String()
	}
	editor.SelectElement(id)
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	out, err := engine.DrawCommandsToJSON(editor.Render())
	if err != nil {
		slog.Error("encode draw commands", "error", err)
	}
	return js.ValueOf(out)
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("{}")
	}
	return js.ValueOf(toJSON(editor.HitTest(args[0].Float(), args[1].Float())))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	bounds, ok := editor.SelectionBounds()
	if !ok {
		return js.Null()
	}
	return js.ValueOf(toJSON(bounds))
}

func getElements(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(toJSON(editor.Scene().Elements()))
}

func getLayers(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(toJSON(editor.Scene().Layers()))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.Scene().Selected())
}

func getTool(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(string(editor.Tool()))
}

func getMode(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(string(editor.Mode()))
}

func getSettings(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(toJSON(settings))
}

func exportJSON(this js.Value, args []js.Value) interface{} {
	data, err := export.JSON(editor.Scene().Elements())
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func exportHTML(this js.Value, args []js.Value) interface{} {
	b := document.Board{
		ID:         boardID,
		Name:       boardID,
		Width:      settings.Artboard.Width,
		Height:     settings.Artboard.Height,
		Background: settings.Artboard.Background,
	}
	var buf bytes.Buffer
	if err := export.HTML(&buf, b, editor.Scene().Elements()); err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(buf.String())
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshal", "error", err)
		return "null"
	}
	return string(data)
}

func okResult() js.Value {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func errorResult(msg string) js.Value {
	return js.ValueOf(map[string]interface{}{"error": msg})
}
