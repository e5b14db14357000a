package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const DefaultIDLength = 16

func GenerateID() (string, error) {
	return gonanoid.Generate(characters, DefaultIDLength)
}
