package events

import "github.com/atomicstack/erp-navstate/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) Enter(levelID, itemID, label, filter string) {
	logging.Trace("browser.enter", map[string]interface{}{
		"level":  levelID,
		"item":   itemID,
		"label":  label,
		"filter": filter,
	})
}

func (UITracer) Cursor(levelID string, cursor int) {
	logging.Trace("browser.cursor", map[string]interface{}{"level": levelID, "cursor": cursor})
}

func (UITracer) Back(levelID string) {
	logging.Trace("browser.back", map[string]interface{}{"level": levelID})
}

func (UITracer) Refresh(levels int, query string) {
	logging.Trace("browser.refresh", map[string]interface{}{"levels": levels, "query": query})
}

func (ActionTracer) Error(id string, err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"id": id, "error": err.Error()})
}

func (ActionTracer) Success(id, info string) {
	logging.Trace("action.success", map[string]interface{}{"id": id, "info": info})
}

func (FilterTracer) Cleared(levelID string) {
	logging.Trace("filter.clear", map[string]interface{}{"level": levelID})
}

func (FilterTracer) WordBackspace(levelID, filter string) {
	logging.Trace("filter.word-backspace", map[string]interface{}{"level": levelID, "filter": filter})
}

func (FilterTracer) Cursor(levelID string, pos int) {
	logging.Trace("filter.cursor", map[string]interface{}{"level": levelID, "cursor": pos})
}

func (FilterTracer) Append(levelID, filter string) {
	logging.Trace("filter.append", map[string]interface{}{"level": levelID, "filter": filter})
}

func (FilterTracer) Backspace(levelID, filter string) {
	logging.Trace("filter.backspace", map[string]interface{}{"level": levelID, "filter": filter})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label string, failed bool) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "failed": failed})
}
