package logging

import (
	"io"
	"os"
)

// LoggingBuilder 日志构建器
type LoggingBuilder struct {
	writer       io.Writer
	formatter    Formatter
	minimumLevel LogLevel
	exit         func(int)
}

// NewLoggingBuilder 创建日志构建器
func NewLoggingBuilder() *LoggingBuilder {
	return &LoggingBuilder{
		writer:       os.Stdout,
		formatter:    NewTextFormatter(),
		minimumLevel: LogLevelInfo,
		exit:         os.Exit,
	}
}

// SetMinimumLevel 设置最小日志级别
func (b *LoggingBuilder) SetMinimumLevel(level LogLevel) *LoggingBuilder {
	b.minimumLevel = level
	return b
}

// UseWriter 设置输出目标
func (b *LoggingBuilder) UseWriter(w io.Writer) *LoggingBuilder {
	b.writer = w
	return b
}

// UseFormatter 设置格式化器
func (b *LoggingBuilder) UseFormatter(f Formatter) *LoggingBuilder {
	b.formatter = f
	return b
}

// UseJson 使用 JSON 格式输出
func (b *LoggingBuilder) UseJson() *LoggingBuilder {
	return b.UseFormatter(NewJsonFormatter())
}

// UseExit 替换 Fatal 的退出函数（测试用）
func (b *LoggingBuilder) UseExit(exit func(int)) *LoggingBuilder {
	b.exit = exit
	return b
}

// Build 构建日志工厂
func (b *LoggingBuilder) Build() LoggerFactory {
	return &loggerFactory{
		writer:       b.writer,
		formatter:    b.formatter,
		minimumLevel: b.minimumLevel,
		exit:         b.exit,
	}
}
