package service

import (
	"github.com/sirupsen/logrus"

	"github.com/pvs1-classifier/internal/domain"
)

// ClassifyConsequences wraps domain.ClassifyConsequences (C5) with the
// engine's tracing convention: every category decision is logged at debug
// level so a classification run can be replayed from logs alone.
func ClassifyConsequences(consequences []string) domain.ConsequenceCategory {
	category := domain.ClassifyConsequences(consequences)
	logrus.WithFields(logrus.Fields{
		"consequences": consequences,
		"category":     category,
	}).Debug("classified variant consequences")
	return category
}
