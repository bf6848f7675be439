package execcmd

import (
	"github.com/edygar/interval/logger"
)

// Implementation Note:
//
// Pre-events logged with debug
// Post-event without error logged with info
// A child exiting non-zero is logged with warn, it is not an error of ours.
// Failing to start is logged at error level

func startPostLogging(c *Cmd, err error) {
	if err != nil {
		c.log().WithError(err).Error("cannot start command")
		return
	}
	c.log().WithField("pid", c.cmd.Process.Pid).Info("started command")
}

func waitPostLogging(c *Cmd, u usage, err error) {
	log := c.log().WithFields(logger.Fields{
		"total_time_s": u.totalSecs,
		"systemtime_s": u.systemSecs,
		"usertime_s":   u.userSecs,
		"exit_code":    u.exitCode,
	})
	if err != nil {
		log.WithError(err).Warn("command exited with error")
		return
	}
	log.Info("command exited without error")
}
