package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
)

// Producer is the queue gateway: a single fire-and-forget send to a named
// channel. The returned message id only acknowledges broker acceptance, never
// processing.
type Producer interface {
	Enqueue(ctx context.Context, queueName string, payload any, delaySeconds int) (string, error)
	Close() error
}

// TaskMessage is the wire payload delivered to the external TTS worker.
type TaskMessage struct {
	Type                string `json:"type"`
	URL                 string `json:"url"`
	ScriptPrompt        string `json:"script_prompt"`
	PromptAudioSpeaker1 string `json:"prompt_audio_speaker1"`
	PromptTextSpeaker1  string `json:"prompt_text_speaker1"`
	PromptAudioSpeaker2 string `json:"prompt_audio_speaker2"`
	PromptTextSpeaker2  string `json:"prompt_text_speaker2"`
	ID                  string `json:"id"`
}

type producer struct {
	producer sarama.SyncProducer
}

func NewProducer(brokers []string) (Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &producer{producer: p}, nil
}

// NewProducerWithSync wraps an existing sarama producer. Used by tests.
func NewProducerWithSync(p sarama.SyncProducer) Producer {
	return &producer{producer: p}
}

func (p *producer) Enqueue(ctx context.Context, queueName string, payload any, delaySeconds int) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode queue payload: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: queueName,
		Value: sarama.ByteEncoder(data),
	}
	if delaySeconds > 0 {
		// Kafka has no native delayed delivery; the consumer honors this
		// header before picking the task up.
		msg.Headers = append(msg.Headers, sarama.RecordHeader{
			Key:   []byte("delay_seconds"),
			Value: []byte(strconv.Itoa(delaySeconds)),
		})
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d-%d", partition, offset), nil
}

func (p *producer) Close() error {
	return p.producer.Close()
}
