package extension

import (
	"sync"
	"sync/atomic"

	"tx-inspector-sol/pkg/logger"
)

// 进程级分析器列表：启动时一次性写入，此后只读。
// 并发首调时仅一个初始化者生效，其余观察到已初始化的列表（first-writer-wins）。
var (
	initOnce sync.Once
	global   atomic.Pointer[Registry]
)

// Registry 是一组已登记且通过校验的协议分析器的不可变句柄。
// 分析入口显式接收它（或其 Analyzers() 切片），不依赖隐藏的可变全局状态。
type Registry struct {
	analyzers []Analyzer
}

// NewRegistry 校验并装配分析器列表。
// SupportedPrograms 报错的扩展视为构建期缺陷：记录日志并禁用，不影响其余扩展。
func NewRegistry(analyzers ...Analyzer) *Registry {
	vetted := make([]Analyzer, 0, len(analyzers))
	for _, a := range analyzers {
		if _, err := a.SupportedPrograms(); err != nil {
			logger.Errorf("[extension] analyzer %s disabled: %v", a.Name(), err)
			continue
		}
		vetted = append(vetted, a)
	}
	return &Registry{analyzers: vetted}
}

// Analyzers 返回只读的分析器切片
func (r *Registry) Analyzers() []Analyzer {
	if r == nil {
		return nil
	}
	return r.analyzers
}

// Init 初始化进程级注册表，仅首次调用生效，后续调用返回既有列表
func Init(analyzers ...Analyzer) *Registry {
	initOnce.Do(func() {
		global.Store(NewRegistry(analyzers...))
	})
	return global.Load()
}

// Registered 返回进程级注册表；未初始化时为空注册表
func Registered() *Registry {
	if r := global.Load(); r != nil {
		return r
	}
	return &Registry{}
}
