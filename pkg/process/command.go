package process

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Flag passed to bots when the arena doesn't enforce time limits
const NoTimeLimitFlag = "--no-time-limit"

// Interpreter used for python bots, -u keeps the child's output unbuffered
var PythonInterpreter = "python3"

// Command turns a bot identifier into the program and arguments to start
func Command(bot string, noTimeLimit bool) (name string, args []string) {
	if strings.HasSuffix(bot, ".py") {
		name = PythonInterpreter
		args = []string{"-u", bot}
	} else {
		name = bot
	}

	if noTimeLimit {
		args = append(args, NoTimeLimitFlag)
	}
	return name, args
}

// SpawnBot starts the bot, see Command
func SpawnBot(bot string, noTimeLimit bool) (*Channel, error) {
	name, args := Command(bot, noTimeLimit)
	return Spawn(name, args...)
}

// Resolve checks that the bot can be started, without starting it
func Resolve(bot string) error {
	if strings.HasSuffix(bot, ".py") {
		if _, err := os.Stat(bot); err != nil {
			return fmt.Errorf("%w: %s", ErrBotNotFound, bot)
		}
		if _, err := exec.LookPath(PythonInterpreter); err != nil {
			return fmt.Errorf("%w: interpreter %s", ErrBotNotFound, PythonInterpreter)
		}
		return nil
	}

	// bare names are looked up in PATH, anything with a separator is a file
	if !strings.ContainsRune(bot, filepath.Separator) {
		if _, err := exec.LookPath(bot); err != nil {
			return fmt.Errorf("%w: %s", ErrBotNotFound, bot)
		}
		return nil
	}

	info, err := os.Stat(bot)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBotNotFound, bot)
	}
	if info.IsDir() || info.Mode()&0111 == 0 {
		return fmt.Errorf("%w: %s", ErrNotExecutable, bot)
	}
	return nil
}
