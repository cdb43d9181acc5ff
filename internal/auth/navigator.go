package auth

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Navigator 宿主环境提供的提示与跳转能力
type Navigator interface {
	ShowToast(title string)
	RedirectTo(page string)
	SwitchTab(page string)
}

// 导航动作类型
const (
	ActionToast    = "toast"
	ActionRedirect = "redirect"
	ActionSwitch   = "switch_tab"
)

// NavEvent 一次导航动作
type NavEvent struct {
	Action string
	Value  string
}

// RecordingNavigator 记录所有导航动作
type RecordingNavigator struct {
	mu     sync.Mutex
	events []NavEvent
}

// ShowToast 记录提示
func (n *RecordingNavigator) ShowToast(title string) { n.add(ActionToast, title) }

// RedirectTo 记录跳转
func (n *RecordingNavigator) RedirectTo(page string) { n.add(ActionRedirect, page) }

// SwitchTab 记录切换
func (n *RecordingNavigator) SwitchTab(page string) { n.add(ActionSwitch, page) }

func (n *RecordingNavigator) add(action, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, NavEvent{Action: action, Value: value})
}

// Events 已记录的动作
func (n *RecordingNavigator) Events() []NavEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]NavEvent(nil), n.events...)
}

// Toasts 已显示的提示
func (n *RecordingNavigator) Toasts() []string {
	var out []string
	for _, e := range n.Events() {
		if e.Action == ActionToast {
			out = append(out, e.Value)
		}
	}
	return out
}

// Last 最后一次动作
func (n *RecordingNavigator) Last() (NavEvent, bool) {
	events := n.Events()
	if len(events) == 0 {
		return NavEvent{}, false
	}
	return events[len(events)-1], true
}

// Reset 清空记录
func (n *RecordingNavigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}

// LogNavigator 把导航动作写入日志, 用于命令行
type LogNavigator struct {
	Logger *logrus.Logger
}

// ShowToast 输出提示
func (n LogNavigator) ShowToast(title string) {
	n.logger().Warn(title)
}

// RedirectTo 输出跳转
func (n LogNavigator) RedirectTo(page string) {
	n.logger().WithField("page", page).Info("跳转页面")
}

// SwitchTab 输出切换
func (n LogNavigator) SwitchTab(page string) {
	n.logger().WithField("page", page).Info("切换标签页")
}

func (n LogNavigator) logger() *logrus.Logger {
	if n.Logger == nil {
		return logrus.StandardLogger()
	}
	return n.Logger
}
