// Package speech triggers the platform speech synthesizer. Only the
// triggering contract matters; voice quality and engine internals are the
// OS's problem.
package speech

import (
	"log"
	"os/exec"
	"runtime"
	"sync"
)

// CommandSpeaker voices phrases through the platform's speech command
// (say on macOS, PowerShell on Windows, espeak or spd-say elsewhere).
type CommandSpeaker struct {
	once      sync.Once
	cmd       string
	args      func(text string) []string
	available bool
}

func NewCommandSpeaker() *CommandSpeaker {
	return &CommandSpeaker{}
}

func (s *CommandSpeaker) detect() {
	s.once.Do(func() {
		switch runtime.GOOS {
		case "darwin":
			s.cmd = "say"
			s.args = func(text string) []string { return []string{text} }
		case "windows":
			s.cmd = "powershell"
			s.args = func(text string) []string {
				return []string{"-NoProfile", "-Command",
					"Add-Type -AssemblyName System.Speech; " +
						"(New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak(" + psQuote(text) + ")"}
			}
		default:
			for _, candidate := range []string{"espeak", "spd-say"} {
				if _, err := exec.LookPath(candidate); err == nil {
					s.cmd = candidate
					break
				}
			}
			s.args = func(text string) []string { return []string{text} }
		}
		if s.cmd == "" {
			return
		}
		if _, err := exec.LookPath(s.cmd); err != nil {
			log.Printf("speech: %s not found, speech disabled", s.cmd)
			return
		}
		s.available = true
	})
}

// Available reports whether a speech command exists on this system.
func (s *CommandSpeaker) Available() bool {
	s.detect()
	return s.available
}

// Speak voices the text without blocking the caller. The spawned process is
// not waited on; a failure to even start is the only reported error.
func (s *CommandSpeaker) Speak(text string) error {
	s.detect()
	if !s.available {
		return nil
	}
	cmd := exec.Command(s.cmd, s.args(text)...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("speech: %s exited with error: %v", s.cmd, err)
		}
	}()
	return nil
}

// psQuote wraps text in PowerShell single quotes, doubling embedded ones.
func psQuote(text string) string {
	out := "'"
	for _, r := range text {
		if r == '\'' {
			out += "''"
		} else {
			out += string(r)
		}
	}
	return out + "'"
}
