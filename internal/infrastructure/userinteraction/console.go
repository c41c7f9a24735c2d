package userinteraction

import (
	"fmt"

	"formwalker/internal/application/port/output"
	"github.com/fatih/color"
)

var _ output.ProgressPort = (*ConsoleProgress)(nil)

// ConsoleProgress renders traversal progress to stdout.
type ConsoleProgress struct {
	totalHint int
}

func NewConsoleProgress() *ConsoleProgress {
	return &ConsoleProgress{}
}

func (p *ConsoleProgress) Begin(totalHint int) {
	p.totalHint = totalHint

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Println("\n━━━ Обход формы начат ━━━")
}

func (p *ConsoleProgress) StepStarted(identity string, index int) {
	yellow := color.New(color.FgYellow, color.Bold)
	if p.totalHint > 0 {
		yellow.Printf("\n▸ Шаг %d/%d: %s\n", index, p.totalHint, truncate(identity, 60))
		return
	}
	yellow.Printf("\n▸ Шаг %d: %s\n", index, truncate(identity, 60))
}

func (p *ConsoleProgress) StepCompleted(identity string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ Шаг завершён: %s\n", truncate(identity, 60))
}

func (p *ConsoleProgress) StepFailed(identity, reason string) {
	red := color.New(color.FgRed)
	red.Printf("❌ Шаг не завершён: %s\n", truncate(identity, 60))

	if reason != "" {
		dim := color.New(color.Faint)
		dim.Printf("   %s\n", truncate(reason, 120))
	}
}

func (p *ConsoleProgress) Finish(completed, failed int) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Println("\n━━━ Обход формы завершён ━━━")

	green := color.New(color.FgGreen)
	green.Printf("Завершено шагов: %d\n", completed)

	if failed > 0 {
		red := color.New(color.FgRed)
		red.Printf("С ошибками: %d\n", failed)
	} else {
		fmt.Println("С ошибками: 0")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
