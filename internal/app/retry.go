package app

import (
	"fmt"
	"time"

	"mergington-activities/internal/common/logger"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
