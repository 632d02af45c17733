package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"invite-rsvp/config"
	"invite-rsvp/internal/dto"
)

// EventService 活动信息业务接口（落地页倒计时与日历文件）
type EventService interface {
	Info(now time.Time) (*dto.EventResponse, error)
	// Calendar 生成 iCalendar 文本，供"添加到日历"下载
	Calendar(now time.Time) (string, error)
}

type eventService struct {
	cfg     *config.EventConfig
	baseURL string
}

// NewEventService 创建 EventService 实例
func NewEventService(cfg *config.EventConfig, baseURL string) EventService {
	return &eventService{cfg: cfg, baseURL: baseURL}
}

func (s *eventService) Info(now time.Time) (*dto.EventResponse, error) {
	start, err := s.cfg.StartsAt()
	if err != nil {
		return nil, err
	}

	gallery := s.cfg.Gallery
	if gallery == nil {
		gallery = []string{}
	}

	gap := start.Sub(now)
	return &dto.EventResponse{
		Name:        s.cfg.Name,
		Hosts:       s.cfg.Hosts,
		StartsAt:    start.Format(timeFormat),
		Location:    s.cfg.Location,
		Address:     s.cfg.Address,
		Description: s.cfg.Description,
		Gallery:     gallery,
		Countdown:   countdown(gap),
		Started:     gap <= 0,
	}, nil
}

// countdown 将剩余时长拆分为天/时/分/秒，负值归零
func countdown(gap time.Duration) dto.Countdown {
	if gap <= 0 {
		return dto.Countdown{}
	}
	const day = 24 * time.Hour
	return dto.Countdown{
		Days:    int(gap / day),
		Hours:   int((gap % day) / time.Hour),
		Minutes: int((gap % time.Hour) / time.Minute),
		Seconds: int((gap % time.Minute) / time.Second),
	}
}

func (s *eventService) Calendar(now time.Time) (string, error) {
	start, err := s.cfg.StartsAt()
	if err != nil {
		return "", err
	}

	duration := s.cfg.Duration
	if duration <= 0 {
		duration = 6 * time.Hour
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//invite-rsvp//ES")

	ev := cal.AddEvent(s.eventUID())
	ev.SetDtStampTime(now)
	ev.SetStartAt(start)
	ev.SetEndAt(start.Add(duration))
	ev.SetSummary(s.cfg.Name)
	if loc := s.location(); loc != "" {
		ev.SetLocation(loc)
	}
	if s.cfg.Description != "" {
		ev.SetDescription(s.cfg.Description)
	}
	if s.baseURL != "" {
		ev.SetURL(s.baseURL)
	}

	return cal.Serialize(), nil
}

func (s *eventService) location() string {
	switch {
	case s.cfg.Location != "" && s.cfg.Address != "":
		return fmt.Sprintf("%s, %s", s.cfg.Location, s.cfg.Address)
	case s.cfg.Location != "":
		return s.cfg.Location
	default:
		return s.cfg.Address
	}
}

// eventUID 由活动名称与时间派生，重复下载得到同一 UID，日历客户端会更新而非重复添加
func (s *eventService) eventUID() string {
	sum := sha256.Sum256([]byte(s.cfg.Name + "|" + s.cfg.Date))
	return hex.EncodeToString(sum[:12]) + "@invite-rsvp"
}
