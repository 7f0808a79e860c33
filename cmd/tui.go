// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/max-hans/movemaster-lib/pkg/movemaster"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var jogStep float64

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive jog console",
	Long: `Interactive console for jogging the arm.

Keys:
  arrows     jog x/y          u / d      jog z up/down
  [ / ]      pitch - / +      , / .      roll - / +
  + / -      double / halve the jog step
  g          toggle gripper   h          home the arm
  w          re-read pose     :          raw command entry
  q          quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().Float64Var(&jogStep, "step", 10.0, "Initial jog step in mm/deg")
}

// Messages
type jogDoneMsg struct {
	note string
	err  error
}

type jogModel struct {
	robot *movemaster.Robot
	info  string

	pose     movemaster.Pose
	havePose bool
	step     float64

	input       textinput.Model
	inputActive bool

	busy     bool
	status   string
	width    int
	quitting bool
}

func newJogModel(robot *movemaster.Robot, info string, step float64) jogModel {
	input := textinput.New()
	input.Placeholder = "raw command, e.g. SP 5 or WH"
	input.CharLimit = 64
	return jogModel{
		robot:  robot,
		info:   info,
		step:   step,
		input:  input,
		status: "reading pose...",
		width:  80,
	}
}

func (m jogModel) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, m.refreshCmd())
}

// robotCmd runs op off the update loop and reports the outcome. The
// engine serializes commands itself; busy just keeps the UI honest.
func (m jogModel) robotCmd(note string, op func(context.Context) error) tea.Cmd {
	robot := m.robot
	return func() tea.Msg {
		if err := op(context.Background()); err != nil {
			return jogDoneMsg{err: err}
		}
		// Keep the displayed pose in sync with the engine's cache.
		if _, err := robot.Pose(context.Background(), false); err != nil {
			return jogDoneMsg{err: err}
		}
		return jogDoneMsg{note: note}
	}
}

func (m jogModel) refreshCmd() tea.Cmd {
	robot := m.robot
	return func() tea.Msg {
		if _, err := robot.Pose(context.Background(), true); err != nil {
			return jogDoneMsg{err: err}
		}
		return jogDoneMsg{note: "pose refreshed"}
	}
}

func (m jogModel) jog(d movemaster.Pose) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.busy = true
	robot := m.robot
	return m, m.robotCmd(fmt.Sprintf("jogged %s", d), func(ctx context.Context) error {
		return robot.MoveDeltaPose(ctx, d, 0)
	})
}

func (m jogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case jogDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = fmt.Sprintf("error: %v", msg.err)
		} else {
			m.status = msg.note
		}
		if pose, ok := m.robot.CachedPose(); ok {
			m.pose = pose
			m.havePose = true
		} else {
			m.havePose = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.inputActive {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m jogModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "left":
		return m.jog(movemaster.Pose{X: -m.step})
	case "right":
		return m.jog(movemaster.Pose{X: m.step})
	case "up":
		return m.jog(movemaster.Pose{Y: m.step})
	case "down":
		return m.jog(movemaster.Pose{Y: -m.step})
	case "u":
		return m.jog(movemaster.Pose{Z: m.step})
	case "d":
		return m.jog(movemaster.Pose{Z: -m.step})
	case "[":
		return m.jog(movemaster.Pose{P: -m.step})
	case "]":
		return m.jog(movemaster.Pose{P: m.step})
	case ",":
		return m.jog(movemaster.Pose{R: -m.step})
	case ".":
		return m.jog(movemaster.Pose{R: m.step})

	case "+", "=":
		m.step *= 2
		m.status = fmt.Sprintf("step %.1f", m.step)
		return m, nil
	case "-":
		if m.step > 0.1 {
			m.step /= 2
		}
		m.status = fmt.Sprintf("step %.1f", m.step)
		return m, nil

	case "g":
		if m.busy {
			return m, nil
		}
		m.busy = true
		robot := m.robot
		if robot.GripperOpen() {
			return m, m.robotCmd("gripper closed", robot.CloseGripper)
		}
		return m, m.robotCmd("gripper open", robot.OpenGripper)

	case "h":
		if m.busy {
			return m, nil
		}
		m.busy = true
		robot := m.robot
		return m, m.robotCmd("homing issued", robot.Home)

	case "w":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.refreshCmd()

	case ":":
		m.inputActive = true
		m.input.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m jogModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputActive = false
		m.input.Reset()
		return m, nil

	case "enter":
		raw := strings.TrimSpace(m.input.Value())
		m.inputActive = false
		m.input.Reset()
		if raw == "" || m.busy {
			return m, nil
		}
		m.busy = true
		robot := m.robot
		// Queries reply; everything else is fire-and-forget.
		if strings.HasPrefix(strings.ToUpper(raw), "WH") || strings.HasPrefix(strings.ToUpper(raw), "ER") {
			return m, func() tea.Msg {
				reply, err := robot.Query(context.Background(), raw)
				if err != nil {
					return jogDoneMsg{err: err}
				}
				return jogDoneMsg{note: fmt.Sprintf("%s -> %s", raw, reply)}
			}
		}
		return m, m.robotCmd(fmt.Sprintf("sent %s", raw), func(ctx context.Context) error {
			return robot.Send(ctx, raw)
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m jogModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Movemaster Jog Console"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.info))
	b.WriteString("\n\n")

	if m.havePose {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("x:"), valueStyle.Render(fmt.Sprintf("%8.1f mm", m.pose.X))))
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("y:"), valueStyle.Render(fmt.Sprintf("%8.1f mm", m.pose.Y))))
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("z:"), valueStyle.Render(fmt.Sprintf("%8.1f mm", m.pose.Z))))
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("p:"), valueStyle.Render(fmt.Sprintf("%8.1f deg", m.pose.P))))
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render("r:"), valueStyle.Render(fmt.Sprintf("%8.1f deg", m.pose.R))))
	} else {
		b.WriteString(dimStyle.Render("  pose unknown\n"))
	}

	gripper := "closed"
	if m.robot.GripperOpen() {
		gripper = "open"
	}
	b.WriteString(fmt.Sprintf("\n  %s %s   %s %s\n",
		labelStyle.Render("step:"), valueStyle.Render(fmt.Sprintf("%.1f", m.step)),
		labelStyle.Render("gripper:"), valueStyle.Render(gripper)))

	b.WriteString("\n")
	if strings.HasPrefix(m.status, "error:") {
		b.WriteString("  " + errorStyle.Render(m.status) + "\n")
	} else if m.busy {
		b.WriteString("  " + dimStyle.Render("working...") + "\n")
	} else {
		b.WriteString("  " + dimStyle.Render(m.status) + "\n")
	}

	if m.inputActive {
		b.WriteString("\n  " + m.input.View() + "\n")
	} else {
		b.WriteString("\n" + dimStyle.Render("  arrows/u/d jog  [ ] pitch  , . roll  +/- step  g gripper  h home  w re-read  : raw  q quit") + "\n")
	}

	return b.String()
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal")
	}

	robot, info, err := openRobot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer robot.Close()

	p := tea.NewProgram(newJogModel(robot, info, jogStep))
	_, err = p.Run()
	return err
}
